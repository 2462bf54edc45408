package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

type GormTransferRepository struct {
	db *gorm.DB
}

func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Append inserts one audit record. There is no Update or Delete on this
// repository; the table is append-only.
func (r *GormTransferRepository) Append(ctx context.Context, record *domain.TransferRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *GormTransferRepository) FindByItemID(ctx context.Context, itemID uint, limit, offset int) ([]domain.TransferRecord, error) {
	var records []domain.TransferRecord
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error
	return records, err
}

func (r *GormTransferRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.TransferRecord, error) {
	var records []domain.TransferRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error
	return records, err
}
