package reconcile

import (
	"context"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/kafka"
	"github.com/renkteks/kartela/pkg/logger"
)

var (
	driftGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "warehouse_reconciler_drifted_cells",
		Help: "Number of cells whose stored count disagreed with the item table on the last sweep",
	})

	correctionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_reconciler_corrections_total",
			Help: "Count corrections applied by the reconciler",
		},
		[]string{"trigger"},
	)

	partialFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_reconciler_partial_failures_total",
		Help: "Partial failure events received from the transfer coordinator",
	})
)

func init() {
	prometheus.MustRegister(driftGauge)
	prometheus.MustRegister(correctionCounter)
	prometheus.MustRegister(partialFailureCounter)
}

// Reconciler repairs current_count drift left behind by transfers that
// stopped partway. Counts in the item table are the source of truth; the
// denormalized cell counter is only a fast-path copy.
type Reconciler struct {
	items     domain.ItemRepository
	cells     domain.CellRepository
	transfers domain.TransferRepository
}

// NewReconciler creates a new reconciler
func NewReconciler(items domain.ItemRepository, cells domain.CellRepository, transfers domain.TransferRepository) *Reconciler {
	return &Reconciler{items: items, cells: cells, transfers: transfers}
}

// Sweep recounts every cell and corrects the ones that drifted. Returns the
// number of corrections applied.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	const pageSize = 200

	corrected := 0
	drifted := 0
	for offset := 0; ; offset += pageSize {
		cells, err := r.cells.FindAll(ctx, pageSize, offset)
		if err != nil {
			return corrected, err
		}
		if len(cells) == 0 {
			break
		}

		for i := range cells {
			fixed, err := r.reconcileCell(ctx, &cells[i], "sweep")
			if err != nil {
				logger.Error(ctx).Err(err).Str("cell", cells[i].Code).Msg("Failed to reconcile cell")
				continue
			}
			if fixed {
				drifted++
				corrected++
			}
		}

		if len(cells) < pageSize {
			break
		}
	}

	driftGauge.Set(float64(drifted))
	return corrected, nil
}

// ReconcileCellByCode recounts a single cell, typically in response to a
// partial failure event naming it.
func (r *Reconciler) ReconcileCellByCode(ctx context.Context, code string) error {
	cell, err := r.cells.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	_, err = r.reconcileCell(ctx, cell, "event")
	return err
}

func (r *Reconciler) reconcileCell(ctx context.Context, cell *domain.Cell, trigger string) (bool, error) {
	actual, err := r.items.CountByCellID(ctx, cell.ID)
	if err != nil {
		return false, err
	}

	delta := int(actual) - cell.CurrentCount
	if delta == 0 {
		return false, nil
	}

	logger.Warn(ctx).
		Str("cell", cell.Code).
		Int("stored_count", cell.CurrentCount).
		Int64("actual_count", actual).
		Int("delta", delta).
		Str("trigger", trigger).
		Msg("Cell count drift detected, correcting")

	if err := r.cells.AdjustCount(ctx, cell.ID, delta); err != nil {
		return false, err
	}

	correctionCounter.WithLabelValues(trigger).Inc()
	return true, nil
}

// HandlePartialFailure consumes a transfer.partial_failure event and recounts
// the cells the failed transfer touched.
func (r *Reconciler) HandlePartialFailure(ctx context.Context, payload []byte) error {
	var event kafka.TransferPartialFailureEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	partialFailureCounter.Inc()
	logger.Warn(ctx).
		Str("item_code", event.ItemCode).
		Str("from_cell", event.FromCellCode).
		Str("to_cell", event.ToCellCode).
		Str("failed_step", event.FailedStep).
		Strs("steps_applied", event.StepsApplied).
		Msg("Partial transfer failure reported")

	for _, code := range []string{event.FromCellCode, event.ToCellCode} {
		if code == "" {
			continue
		}
		if err := r.ReconcileCellByCode(ctx, code); err != nil {
			logger.Error(ctx).Err(err).Str("cell", code).Msg("Failed to reconcile cell from event")
		}
	}
	return nil
}

// HandleItemTransferred consumes an item.transferred event. Transfers whose
// audit record failed to write get their history backfilled here.
func (r *Reconciler) HandleItemTransferred(ctx context.Context, payload []byte) error {
	var event kafka.ItemTransferredEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	if event.AuditWritten {
		logger.Logger.Debug().
			Str("item_code", event.ItemCode).
			Str("to_cell", event.ToCellCode).
			Msg("Transfer observed")
		return nil
	}

	logger.Warn(ctx).
		Str("item_code", event.ItemCode).
		Str("from_cell", event.FromCellCode).
		Str("to_cell", event.ToCellCode).
		Msg("Transfer committed without audit record, backfilling")

	record := &domain.TransferRecord{
		ItemID:       event.ItemID,
		ItemCode:     event.ItemCode,
		Kind:         domain.TransferKindPlacement,
		FromCellCode: event.FromCellCode,
		ToCellCode:   event.ToCellCode,
		UserID:       event.UserID,
		Description:  "backfilled from item.transferred event",
		CreatedAt:    event.Timestamp,
	}
	if err := r.transfers.Append(ctx, record); err != nil {
		return err
	}

	correctionCounter.WithLabelValues("audit_backfill").Inc()
	return nil
}
