package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Cell represents the smallest storage slot (hücre) in the physical hierarchy.
// Range bounds are stored verbatim as the two boundary item codes; membership
// semantics are plain string comparison, never numeric.
type Cell struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Code               string         `json:"code" gorm:"uniqueIndex;not null"`
	ShelfID            uint           `json:"shelf_id" gorm:"not null;index"`
	Capacity           int            `json:"capacity" gorm:"not null;default:1"`
	CurrentCount       int            `json:"current_count" gorm:"not null;default:0"`
	Active             bool           `json:"active" gorm:"not null;default:true"`
	ColorRangeStart    *string        `json:"color_range_start"`
	ColorRangeEnd      *string        `json:"color_range_end"`
	AssignedCustomerID *uint          `json:"assigned_customer_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Cell) TableName() string {
	return "cells"
}

// HasRange reports whether both range bounds are assigned.
func (c *Cell) HasRange() bool {
	return c.ColorRangeStart != nil && c.ColorRangeEnd != nil
}

// CellRepository defines the contract for cell data access
type CellRepository interface {
	FindByID(ctx context.Context, id uint) (*Cell, error)
	FindByCode(ctx context.Context, code string) (*Cell, error)
	FindAll(ctx context.Context, limit, offset int) ([]Cell, error)

	// AdjustCount shifts current_count by delta without a capacity check.
	// Used to vacate the source cell.
	AdjustCount(ctx context.Context, cellID uint, delta int) error

	// OccupyOne increments current_count only while it stays within capacity.
	// Returns ErrCellFull when the cell filled up since the guard ran.
	OccupyOne(ctx context.Context, cellID uint) error

	UpdateRange(ctx context.Context, cellID uint, start, end *string, capacity int) error
}
