package kafka

import (
	"context"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/pkg/logger"
)

// TransferEventStream adapts the Publisher to the transfer coordinator's
// fire-and-forget event hooks. Publish failures are logged and swallowed; a
// transfer outcome never depends on the broker being up.
type TransferEventStream struct {
	publisher *Publisher
}

// NewTransferEventStream creates a new event stream over publisher
func NewTransferEventStream(publisher *Publisher) *TransferEventStream {
	return &TransferEventStream{publisher: publisher}
}

// ItemTransferred publishes a completed transfer. auditWritten is false when
// the audit append failed; the reconciler backfills the record from the event.
func (s *TransferEventStream) ItemTransferred(ctx context.Context, record domain.TransferRecord, auditWritten bool) {
	err := s.publisher.PublishItemTransferred(ctx, ItemTransferredEvent{
		ItemID:       record.ItemID,
		ItemCode:     record.ItemCode,
		FromCellCode: record.FromCellCode,
		ToCellCode:   record.ToCellCode,
		UserID:       record.UserID,
		AuditWritten: auditWritten,
		Timestamp:    record.CreatedAt,
	})
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("item_code", record.ItemCode).
			Msg("Failed to publish item transferred event")
	}
}

// TransferPartialFailure publishes a transfer that stopped partway
func (s *TransferEventStream) TransferPartialFailure(ctx context.Context, pf *domain.PartialFailureError, userID uint) {
	err := s.publisher.PublishTransferPartialFailure(ctx, TransferPartialFailureEvent{
		ItemCode:     pf.ItemCode,
		FromCellCode: pf.FromCellCode,
		ToCellCode:   pf.ToCellCode,
		StepsApplied: pf.StepsApplied,
		FailedStep:   pf.FailedStep,
		Reason:       pf.Err.Error(),
		UserID:       userID,
	})
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("item_code", pf.ItemCode).
			Msg("Failed to publish partial failure event")
	}
}
