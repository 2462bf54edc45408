package query

import (
	"context"
	"fmt"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

// ListTransfersQuery represents the query to list transfer audit records
type ListTransfersQuery struct {
	ItemID uint // 0 lists across all items
	Limit  int
	Offset int
}

// ListTransfersHandler handles list transfers query
type ListTransfersHandler struct {
	repo domain.TransferRepository
}

// NewListTransfersHandler creates a new list transfers handler
func NewListTransfersHandler(repo domain.TransferRepository) *ListTransfersHandler {
	return &ListTransfersHandler{repo: repo}
}

// Handle executes the list transfers query
func (h *ListTransfersHandler) Handle(ctx context.Context, q ListTransfersQuery) ([]domain.TransferRecord, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}

	var (
		records []domain.TransferRecord
		err     error
	)
	if q.ItemID != 0 {
		records, err = h.repo.FindByItemID(ctx, q.ItemID, q.Limit, q.Offset)
	} else {
		records, err = h.repo.FindAll(ctx, q.Limit, q.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	return records, nil
}
