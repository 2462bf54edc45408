package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/pkg/logger"
)

// UpdateCellRangeCommand represents the command to assign a color-code range
// and capacity to a cell
type UpdateCellRangeCommand struct {
	CellID          uint
	ColorRangeStart *string
	ColorRangeEnd   *string
	Capacity        int
}

// UpdateCellRangeHandler handles the range assignment command
type UpdateCellRangeHandler struct {
	cells domain.CellRepository
}

// NewUpdateCellRangeHandler creates a new update cell range handler
func NewUpdateCellRangeHandler(cells domain.CellRepository) *UpdateCellRangeHandler {
	return &UpdateCellRangeHandler{cells: cells}
}

// Handle validates and persists the range. Validation runs before any write,
// so a rejected command leaves the cell untouched. The returned warning is
// non-fatal (soft capacity ceiling) and the save still goes through.
func (h *UpdateCellRangeHandler) Handle(ctx context.Context, cmd UpdateCellRangeCommand) (string, error) {
	if cmd.CellID == 0 {
		return "", fmt.Errorf("cell_id is required")
	}

	warning, err := domain.ValidateRange(cmd.ColorRangeStart, cmd.ColorRangeEnd, cmd.Capacity)
	if err != nil {
		return "", err
	}

	if _, err := h.cells.FindByID(ctx, cmd.CellID); err != nil {
		if errors.Is(err, domain.ErrCellNotFound) {
			return "", err
		}
		return "", fmt.Errorf("cell lookup failed: %w", err)
	}

	if err := h.cells.UpdateRange(ctx, cmd.CellID, cmd.ColorRangeStart, cmd.ColorRangeEnd, cmd.Capacity); err != nil {
		return "", fmt.Errorf("failed to update cell range: %w", err)
	}

	if warning != "" {
		logger.Logger.Warn().
			Uint("cell_id", cmd.CellID).
			Int("capacity", cmd.Capacity).
			Msg(warning)
	}

	return warning, nil
}
