package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution and guard failures. Every failure surfaces to the operator; the
// engine never retries on its own.
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrItemInactive  = errors.New("item is archived or out of service")
	ErrCellNotFound  = errors.New("cell not found")
	ErrCellInactive  = errors.New("cell is not active")
	ErrCellFull      = errors.New("cell is at capacity")
	ErrAlreadyInCell = errors.New("item is already in this cell")

	ErrTransferFailed = errors.New("transfer failed")

	ErrRangeIncomplete = errors.New("both range bounds must be set together")
	ErrRangeInverted   = errors.New("range start must not sort after range end")
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
)

// Transfer step names recorded by PartialFailureError
const (
	StepVacateSource = "vacate_source"
	StepOccupyDest   = "occupy_destination"
	StepUpdateItem   = "update_item"
	StepAppendAudit  = "append_audit"
)

// PartialFailureError reports a transfer that mutated at least one record
// before a later step failed. There is no rollback of the applied steps; the
// error carries enough state for manual reconciliation of current_count drift.
type PartialFailureError struct {
	ItemCode     string
	FromCellCode string
	ToCellCode   string
	StepsApplied []string
	FailedStep   string
	Err          error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("transfer of %q partially applied (done: %s, failed at %s): %v",
		e.ItemCode, strings.Join(e.StepsApplied, ","), e.FailedStep, e.Err)
}

// Unwrap exposes the underlying step error
func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
