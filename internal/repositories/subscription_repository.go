package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"captionly/internal/models/db_models"

	"github.com/google/uuid"
)

type ISubscriptionRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.UserSubscription, error)
	SaveTrial(ctx context.Context, userID uuid.UUID, productID string, start, end int64) error
	SaveSubscription(ctx context.Context, userID uuid.UUID, productID string, purchaseDate, expiryDate int64) error
	DisableTrial(ctx context.Context, userID uuid.UUID) error

	// TryConsumeFreeQuota increments free_caption_count by one, creating the
	// record if absent, but only while the count is below limit. Returns
	// whether the increment was applied. Must stay a single statement so
	// concurrent requests for the same user cannot lose updates or pass the
	// cap.
	TryConsumeFreeQuota(ctx context.Context, userID uuid.UUID, limit int) (bool, error)

	// CarryOverFreeCount sets free_caption_count to count only if it is
	// still exactly zero. Returns whether the write happened.
	CarryOverFreeCount(ctx context.Context, userID uuid.UUID, count int) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.UserSubscription, error) {
	var record db_models.UserSubscription
	err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

func (r *subscriptionRepository) SaveTrial(ctx context.Context, userID uuid.UUID, productID string, start, end int64) error {
	record := db_models.UserSubscription{
		UserID:           userID,
		ProductID:        productID,
		FreeTrialEnabled: true,
		FreeTrialUsed:    true,
		FreeTrialStart:   start,
		FreeTrialEnd:     end,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_id", "free_trial_enabled", "free_trial_used",
			"free_trial_start", "free_trial_end", "updated_at",
		}),
	}).Create(&record).Error
}

func (r *subscriptionRepository) SaveSubscription(ctx context.Context, userID uuid.UUID, productID string, purchaseDate, expiryDate int64) error {
	record := db_models.UserSubscription{
		UserID:       userID,
		IsSubscribed: true,
		ProductID:    productID,
		PurchaseDate: purchaseDate,
		ExpiryDate:   expiryDate,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_subscribed", "product_id", "purchase_date", "expiry_date", "updated_at",
		}),
	}).Create(&record).Error
}

func (r *subscriptionRepository) DisableTrial(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.UserSubscription{}).
		Where("user_id = ?", userID).
		Update("free_trial_enabled", false).Error
}

func (r *subscriptionRepository) TryConsumeFreeQuota(ctx context.Context, userID uuid.UUID, limit int) (bool, error) {
	record := db_models.UserSubscription{
		UserID:           userID,
		FreeCaptionCount: 1,
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"free_caption_count": gorm.Expr("user_subscriptions.free_caption_count + 1"),
			"updated_at":         time.Now().Unix(),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("user_subscriptions.free_caption_count < ?", limit),
		}},
	}).Create(&record)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) CarryOverFreeCount(ctx context.Context, userID uuid.UUID, count int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.UserSubscription{}).
		Where("user_id = ? AND free_caption_count = 0", userID).
		Update("free_caption_count", count)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
