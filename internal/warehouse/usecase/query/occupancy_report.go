package query

import (
	"context"
	"fmt"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

// OccupancyReportHandler aggregates cell usage per shelf for display
type OccupancyReportHandler struct {
	repo domain.HierarchyRepository
}

// NewOccupancyReportHandler creates a new occupancy report handler
func NewOccupancyReportHandler(repo domain.HierarchyRepository) *OccupancyReportHandler {
	return &OccupancyReportHandler{repo: repo}
}

// Handle executes the occupancy report query
func (h *OccupancyReportHandler) Handle(ctx context.Context) ([]domain.ShelfOccupancy, error) {
	summary, err := h.repo.OccupancySummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build occupancy summary: %w", err)
	}
	return summary, nil
}
