package domain

import (
	"context"
	"time"
)

// Transfer kinds
const (
	TransferKindPlacement = "placement"
)

// TransferRecord is the immutable audit entry written for every transfer
// attempt that reached the mutation phase. Records are append-only and are
// never updated or deleted.
type TransferRecord struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ItemID       uint      `json:"item_id" gorm:"not null;index"`
	ItemCode     string    `json:"item_code" gorm:"not null"`
	Kind         string    `json:"kind" gorm:"not null;default:'placement'"`
	FromCellCode string    `json:"from_cell_code"`
	ToCellCode   string    `json:"to_cell_code" gorm:"not null"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (TransferRecord) TableName() string {
	return "transfer_records"
}

// TransferRepository defines the contract for the append-only audit log
type TransferRepository interface {
	Append(ctx context.Context, record *TransferRecord) error
	FindByItemID(ctx context.Context, itemID uint, limit, offset int) ([]TransferRecord, error)
	FindAll(ctx context.Context, limit, offset int) ([]TransferRecord, error)
}
