package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

type GormCellRepository struct {
	db *gorm.DB
}

func NewGormCellRepository(db *gorm.DB) *GormCellRepository {
	return &GormCellRepository{db: db}
}

func (r *GormCellRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Cell{})
}

func (r *GormCellRepository) FindByID(ctx context.Context, id uint) (*domain.Cell, error) {
	var cell domain.Cell
	err := r.db.WithContext(ctx).First(&cell, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCellNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cell, nil
}

func (r *GormCellRepository) FindByCode(ctx context.Context, code string) (*domain.Cell, error) {
	var cell domain.Cell
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&cell).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCellNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cell, nil
}

func (r *GormCellRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Cell, error) {
	var cells []domain.Cell
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&cells).Error
	return cells, err
}

// AdjustCount shifts current_count by delta. The floor at zero absorbs drift
// from earlier partial failures instead of going negative.
func (r *GormCellRepository) AdjustCount(ctx context.Context, cellID uint, delta int) error {
	result := r.db.WithContext(ctx).Model(&domain.Cell{}).
		Where("id = ?", cellID).
		Update("current_count", gorm.Expr("GREATEST(current_count + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCellNotFound
	}
	return nil
}

// OccupyOne is the single-statement capacity-checked increment. The WHERE
// clause makes concurrent transfers into a nearly full cell serialize on the
// row: whichever UPDATE runs second sees the new count and matches no row.
func (r *GormCellRepository) OccupyOne(ctx context.Context, cellID uint) error {
	result := r.db.WithContext(ctx).Model(&domain.Cell{}).
		Where("id = ? AND current_count < capacity", cellID).
		Update("current_count", gorm.Expr("current_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the cell vanished or it filled up under us.
		if _, err := r.FindByID(ctx, cellID); err != nil {
			return err
		}
		return domain.ErrCellFull
	}
	return nil
}

func (r *GormCellRepository) UpdateRange(ctx context.Context, cellID uint, start, end *string, capacity int) error {
	result := r.db.WithContext(ctx).Model(&domain.Cell{}).
		Where("id = ?", cellID).
		Updates(map[string]interface{}{
			"color_range_start": start,
			"color_range_end":   end,
			"capacity":          capacity,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCellNotFound
	}
	return nil
}
