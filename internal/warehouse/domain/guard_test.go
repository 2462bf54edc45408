package domain

import (
	"errors"
	"testing"
)

func uintPtr(v uint) *uint { return &v }

func TestEvaluatePlacement(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		cell    Cell
		wantErr error
	}{
		{
			name:    "accepts active cell with room",
			item:    Item{ID: 1, CurrentCellID: uintPtr(7)},
			cell:    Cell{ID: 2, Active: true, Capacity: 50, CurrentCount: 10},
			wantErr: nil,
		},
		{
			name:    "accepts unassigned item",
			item:    Item{ID: 1},
			cell:    Cell{ID: 2, Active: true, Capacity: 50, CurrentCount: 49},
			wantErr: nil,
		},
		{
			name:    "rejects inactive cell",
			item:    Item{ID: 1},
			cell:    Cell{ID: 2, Active: false, Capacity: 50},
			wantErr: ErrCellInactive,
		},
		{
			name:    "rejects full cell",
			item:    Item{ID: 1},
			cell:    Cell{ID: 2, Active: true, Capacity: 50, CurrentCount: 50},
			wantErr: ErrCellFull,
		},
		{
			name:    "rejects same cell",
			item:    Item{ID: 1, CurrentCellID: uintPtr(2)},
			cell:    Cell{ID: 2, Active: true, Capacity: 50, CurrentCount: 10},
			wantErr: ErrAlreadyInCell,
		},
		{
			name:    "inactive check runs before capacity",
			item:    Item{ID: 1},
			cell:    Cell{ID: 2, Active: false, Capacity: 50, CurrentCount: 50},
			wantErr: ErrCellInactive,
		},
		{
			name:    "full check runs before same-cell",
			item:    Item{ID: 1, CurrentCellID: uintPtr(2)},
			cell:    Cell{ID: 2, Active: true, Capacity: 50, CurrentCount: 50},
			wantErr: ErrCellFull,
		},
		{
			name:    "zero capacity skips the capacity check",
			item:    Item{ID: 1},
			cell:    Cell{ID: 2, Active: true, Capacity: 0, CurrentCount: 3},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EvaluatePlacement(&tt.item, &tt.cell)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EvaluatePlacement() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransferable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{ItemStatusActive, true},
		{ItemStatusFull, true},
		{ItemStatusArchived, false},
		{ItemStatusOutOfService, false},
	}

	for _, tt := range tests {
		item := Item{Status: tt.status}
		if got := item.Transferable(); got != tt.want {
			t.Errorf("Transferable() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
