package domain

import (
	"context"
	"time"
)

// Room is the top of the physical containment hierarchy. Hierarchy nodes are
// read-only context for the transfer engine; their CRUD lives elsewhere.
type Room struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Room) TableName() string {
	return "rooms"
}

// Cabinet sits inside a room
type Cabinet struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	RoomID    uint      `json:"room_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Cabinet) TableName() string {
	return "cabinets"
}

// Shelf sits inside a cabinet and holds cells
type Shelf struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	CabinetID uint      `json:"cabinet_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Shelf) TableName() string {
	return "shelves"
}

// ShelfOccupancy aggregates cell capacity and usage per shelf
type ShelfOccupancy struct {
	ShelfID   uint   `json:"shelf_id"`
	ShelfCode string `json:"shelf_code"`
	Cells     int    `json:"cells"`
	Capacity  int    `json:"capacity"`
	Occupied  int    `json:"occupied"`
}

// HierarchyRepository defines read-only access to the containment hierarchy
type HierarchyRepository interface {
	FindShelfByID(ctx context.Context, id uint) (*Shelf, error)
	OccupancySummary(ctx context.Context) ([]ShelfOccupancy, error)
}
