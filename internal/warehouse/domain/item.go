package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Item statuses
const (
	ItemStatusActive       = "active"
	ItemStatusFull         = "full"
	ItemStatusArchived     = "archived"
	ItemStatusOutOfService = "out_of_service"
)

// Item represents a physical color card (kartela) tracked in the warehouse
type Item struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Code             string         `json:"code" gorm:"uniqueIndex;not null"`
	ColorCode        string         `json:"color_code" gorm:"index"`
	Status           string         `json:"status" gorm:"not null;default:'active'"`
	CurrentCellID    *uint          `json:"current_cell_id" gorm:"index"`
	CurrentCellCode  string         `json:"current_cell_code"`
	UsageCount       int            `json:"usage_count" gorm:"not null;default:0"`
	LastUsedAt       *time.Time     `json:"last_used_at"`
	LastUsedByUserID *uint          `json:"last_used_by_user_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Item) TableName() string {
	return "items"
}

// Transferable reports whether the item may take part in a transfer.
// Archived and out-of-service cards never leave their recorded location.
func (i *Item) Transferable() bool {
	return i.Status != ItemStatusArchived && i.Status != ItemStatusOutOfService
}

// ItemRepository defines the contract for item data access
type ItemRepository interface {
	FindByID(ctx context.Context, id uint) (*Item, error)
	FindByCode(ctx context.Context, code string) (*Item, error)
	FindByColorCodeContains(ctx context.Context, fragment string) ([]Item, error)
	UpdatePlacement(ctx context.Context, itemID, cellID uint, cellCode string, userID uint, now time.Time) error
	CountByCellID(ctx context.Context, cellID uint) (int64, error)
}
