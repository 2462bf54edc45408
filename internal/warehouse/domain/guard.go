package domain

// EvaluatePlacement decides whether item may be placed into cell. It returns
// nil to accept or the first failing check's error, in this order: inactive
// cell, full cell, same-cell placement. The capacity check only applies when
// the cell carries a positive capacity.
//
// The assigned color range is deliberately not checked here: out-of-range
// placement is allowed at transfer time.
func EvaluatePlacement(item *Item, cell *Cell) error {
	if !cell.Active {
		return ErrCellInactive
	}
	if cell.Capacity > 0 && cell.CurrentCount >= cell.Capacity {
		return ErrCellFull
	}
	if item.CurrentCellID != nil && *item.CurrentCellID == cell.ID {
		return ErrAlreadyInCell
	}
	return nil
}
