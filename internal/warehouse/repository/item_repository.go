package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindByCode(ctx context.Context, code string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByColorCodeContains returns every item whose color code contains the
// fragment, case-insensitive, ordered by id so the first-of-many tie-break is
// stable across calls.
func (r *GormItemRepository) FindByColorCodeContains(ctx context.Context, fragment string) ([]domain.Item, error) {
	var items []domain.Item
	pattern := "%" + strings.ToLower(fragment) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(color_code) LIKE ?", pattern).
		Order("id").
		Find(&items).Error
	return items, err
}

// UpdatePlacement repoints the item at its new cell and bumps the usage
// bookkeeping in one UPDATE.
func (r *GormItemRepository) UpdatePlacement(ctx context.Context, itemID, cellID uint, cellCode string, userID uint, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"current_cell_id":      cellID,
			"current_cell_code":    cellCode,
			"last_used_by_user_id": userID,
			"last_used_at":         now,
			"usage_count":          gorm.Expr("usage_count + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormItemRepository) CountByCellID(ctx context.Context, cellID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("current_cell_id = ?", cellID).
		Count(&count).Error
	return count, err
}
