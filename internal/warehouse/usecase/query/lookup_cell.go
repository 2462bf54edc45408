package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

// LookupCellQuery carries the scanned destination cell code
type LookupCellQuery struct {
	Code string
}

// LookupCellHandler resolves a cell code to a cell record
type LookupCellHandler struct {
	repo domain.CellRepository
}

// NewLookupCellHandler creates a new lookup cell handler
func NewLookupCellHandler(repo domain.CellRepository) *LookupCellHandler {
	return &LookupCellHandler{repo: repo}
}

// Handle resolves the code. Cells match exactly or not at all; there is no
// fuzzy fallback on the destination side.
func (h *LookupCellHandler) Handle(ctx context.Context, q LookupCellQuery) (*domain.Cell, error) {
	code := strings.TrimSpace(q.Code)
	if code == "" {
		return nil, domain.ErrCellNotFound
	}

	cell, err := h.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrCellNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cell lookup failed: %w", err)
	}

	return cell, nil
}
