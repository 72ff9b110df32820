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

type IGuestRepository interface {
	FindByDeviceID(ctx context.Context, deviceID string) (*db_models.Guest, error)

	// UpsertUsage records the client-reported free caption count for a
	// device. The stored count only ever goes up, and a merged record is
	// never touched again.
	UpsertUsage(ctx context.Context, deviceID string, count int) error

	MarkMerged(ctx context.Context, deviceID string, userID uuid.UUID) error
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) IGuestRepository {
	return &guestRepository{db: db}
}

func (g *guestRepository) FindByDeviceID(ctx context.Context, deviceID string) (*db_models.Guest, error) {
	var guest db_models.Guest
	err := g.db.WithContext(ctx).First(&guest, "device_id = ?", deviceID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &guest, nil
}

func (g *guestRepository) UpsertUsage(ctx context.Context, deviceID string, count int) error {
	guest := db_models.Guest{
		DeviceID:         deviceID,
		FreeCaptionCount: count,
	}

	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"free_caption_count": gorm.Expr("GREATEST(guests.free_caption_count, excluded.free_caption_count)"),
			"updated_at":         time.Now().Unix(),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("guests.merged_into_user = FALSE"),
		}},
	}).Create(&guest).Error
}

func (g *guestRepository) MarkMerged(ctx context.Context, deviceID string, userID uuid.UUID) error {
	return g.db.WithContext(ctx).
		Model(&db_models.Guest{}).
		Where("device_id = ?", deviceID).
		Updates(map[string]interface{}{
			"merged_into_user": true,
			"merged_user_id":   userID,
		}).Error
}
