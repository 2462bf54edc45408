package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/pkg/logger"
)

// TransferEvents publishes transfer outcomes to the event stream. Both calls
// are fire-and-forget; implementations log their own failures.
type TransferEvents interface {
	ItemTransferred(ctx context.Context, record domain.TransferRecord, auditWritten bool)
	TransferPartialFailure(ctx context.Context, pf *domain.PartialFailureError, userID uint)
}

// TransferItemCommand represents the command to move a resolved item into a
// resolved destination cell
type TransferItemCommand struct {
	Item     *domain.Item
	DestCell *domain.Cell
	UserID   uint
}

// TransferResult reports a completed transfer
type TransferResult struct {
	Record       domain.TransferRecord
	AuditWritten bool
}

// TransferItemHandler coordinates the four dependent writes of a transfer:
// vacate the source cell, occupy the destination, update the item's
// placement, append the audit record. The writes are sequential, not one
// transaction; a failure after the first applied write surfaces as
// *domain.PartialFailureError and is never rolled back here. Repairing
// current_count drift is the reconciler's job.
type TransferItemHandler struct {
	items     domain.ItemRepository
	cells     domain.CellRepository
	transfers domain.TransferRepository
	events    TransferEvents
}

// NewTransferItemHandler creates a new transfer item handler
func NewTransferItemHandler(
	items domain.ItemRepository,
	cells domain.CellRepository,
	transfers domain.TransferRepository,
	events TransferEvents,
) *TransferItemHandler {
	return &TransferItemHandler{items: items, cells: cells, transfers: transfers, events: events}
}

// Handle executes the transfer command
func (h *TransferItemHandler) Handle(ctx context.Context, cmd TransferItemCommand) (*TransferResult, error) {
	if cmd.Item == nil || cmd.DestCell == nil {
		return nil, fmt.Errorf("%w: item and destination cell are required", domain.ErrTransferFailed)
	}
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("%w: acting user is required", domain.ErrTransferFailed)
	}

	item, dest := cmd.Item, cmd.DestCell

	// Re-run the guard so a direct caller cannot bypass it. Zero writes have
	// happened at this point.
	if err := domain.EvaluatePlacement(item, dest); err != nil {
		return nil, err
	}

	var applied []string
	fromCellCode := item.CurrentCellCode

	fail := func(step string, err error) error {
		if len(applied) == 0 {
			// Nothing written yet, this is a clean failure.
			if errors.Is(err, domain.ErrCellFull) {
				return err
			}
			return fmt.Errorf("%w at %s: %v", domain.ErrTransferFailed, step, err)
		}
		pf := &domain.PartialFailureError{
			ItemCode:     item.Code,
			FromCellCode: fromCellCode,
			ToCellCode:   dest.Code,
			StepsApplied: append([]string(nil), applied...),
			FailedStep:   step,
			Err:          err,
		}
		logger.Logger.Error().
			Str("item_code", pf.ItemCode).
			Str("from_cell", pf.FromCellCode).
			Str("to_cell", pf.ToCellCode).
			Strs("steps_applied", pf.StepsApplied).
			Str("failed_step", pf.FailedStep).
			Err(err).
			Msg("Transfer partially applied, counts need reconciliation")
		if h.events != nil {
			h.events.TransferPartialFailure(ctx, pf, cmd.UserID)
		}
		return pf
	}

	// Step 1: vacate the source cell, if the item had one.
	if item.CurrentCellID != nil {
		if err := h.cells.AdjustCount(ctx, *item.CurrentCellID, -1); err != nil {
			return nil, fail(domain.StepVacateSource, err)
		}
		applied = append(applied, domain.StepVacateSource)
	}

	// Step 2: occupy the destination. OccupyOne is capacity-guarded in the
	// store, so two concurrent transfers into a nearly full cell cannot both
	// get past the guard's stale read.
	if err := h.cells.OccupyOne(ctx, dest.ID); err != nil {
		return nil, fail(domain.StepOccupyDest, err)
	}
	applied = append(applied, domain.StepOccupyDest)

	// Step 3: repoint the item.
	now := time.Now()
	if err := h.items.UpdatePlacement(ctx, item.ID, dest.ID, dest.Code, cmd.UserID, now); err != nil {
		return nil, fail(domain.StepUpdateItem, err)
	}
	applied = append(applied, domain.StepUpdateItem)

	record := domain.TransferRecord{
		ItemID:       item.ID,
		ItemCode:     item.Code,
		Kind:         domain.TransferKindPlacement,
		FromCellCode: fromCellCode,
		ToCellCode:   dest.Code,
		UserID:       cmd.UserID,
		Description:  fmt.Sprintf("placed %s into %s", item.Code, dest.Code),
		CreatedAt:    now,
	}

	// Step 4: append the audit entry. A failed append does not take the
	// completed transfer back from the operator, but it leaves the trail
	// incomplete, so it is logged and flagged like any partial outcome.
	result := &TransferResult{Record: record, AuditWritten: true}
	if err := h.transfers.Append(ctx, &record); err != nil {
		result.AuditWritten = false
		_ = fail(domain.StepAppendAudit, err)
	} else {
		applied = append(applied, domain.StepAppendAudit)
		result.Record = record
	}

	if h.events != nil {
		h.events.ItemTransferred(ctx, record, result.AuditWritten)
	}

	logger.Logger.Info().
		Str("item_code", item.Code).
		Str("from_cell", fromCellCode).
		Str("to_cell", dest.Code).
		Uint("user_id", cmd.UserID).
		Bool("audit_written", result.AuditWritten).
		Msg("Item transferred")

	return result, nil
}
