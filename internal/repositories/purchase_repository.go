package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"captionly/internal/models/db_models"
)

type IPurchaseRepository interface {
	// Record appends a verified purchase claim. A repeated transaction id
	// is silently ignored, keeping verify-purchase idempotent.
	Record(ctx context.Context, purchase *db_models.Purchase) error
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) IPurchaseRepository {
	return &purchaseRepository{db: db}
}

func (p *purchaseRepository) Record(ctx context.Context, purchase *db_models.Purchase) error {
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoNothing: true,
	}).Create(purchase).Error
}
