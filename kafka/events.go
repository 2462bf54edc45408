package kafka

import "time"

// ItemTransferredEvent announces a completed placement
type ItemTransferredEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	ItemID       uint      `json:"item_id"`
	ItemCode     string    `json:"item_code"`
	FromCellCode string    `json:"from_cell_code"`
	ToCellCode   string    `json:"to_cell_code"`
	UserID       uint      `json:"user_id"`
	AuditWritten bool      `json:"audit_written"`
	Timestamp    time.Time `json:"timestamp"`
}

// TransferPartialFailureEvent flags a transfer that stopped partway, leaving
// cell counts in need of reconciliation
type TransferPartialFailureEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	ItemCode     string    `json:"item_code"`
	FromCellCode string    `json:"from_cell_code"`
	ToCellCode   string    `json:"to_cell_code"`
	StepsApplied []string  `json:"steps_applied"`
	FailedStep   string    `json:"failed_step"`
	Reason       string    `json:"reason"`
	UserID       uint      `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeItemTransferred        = "item.transferred"
	EventTypeTransferPartialFailure = "transfer.partial_failure"
)

// Kafka topics
const (
	TopicItemTransferred        = "item-transferred"
	TopicTransferPartialFailure = "transfer-partial-failure"
)
