package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

type GormHierarchyRepository struct {
	db *gorm.DB
}

func NewGormHierarchyRepository(db *gorm.DB) *GormHierarchyRepository {
	return &GormHierarchyRepository{db: db}
}

func (r *GormHierarchyRepository) FindShelfByID(ctx context.Context, id uint) (*domain.Shelf, error) {
	var shelf domain.Shelf
	if err := r.db.WithContext(ctx).First(&shelf, id).Error; err != nil {
		return nil, err
	}
	return &shelf, nil
}

// OccupancySummary aggregates the cells table per shelf for display and
// capacity reporting.
func (r *GormHierarchyRepository) OccupancySummary(ctx context.Context) ([]domain.ShelfOccupancy, error) {
	var summary []domain.ShelfOccupancy
	err := r.db.WithContext(ctx).Model(&domain.Cell{}).
		Select("cells.shelf_id AS shelf_id, shelves.code AS shelf_code, COUNT(*) AS cells, SUM(cells.capacity) AS capacity, SUM(cells.current_count) AS occupied").
		Joins("JOIN shelves ON shelves.id = cells.shelf_id").
		Group("cells.shelf_id, shelves.code").
		Order("shelves.code").
		Scan(&summary).Error
	return summary, err
}
