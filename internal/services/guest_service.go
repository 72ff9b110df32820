package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"captionly/internal/repositories"
	"captionly/pkg/utils"
)

type GuestServiceInterface interface {
	// TrackUsage records the client-reported free caption count for an
	// anonymous device. The server never lowers a stored count.
	TrackUsage(ctx context.Context, deviceID string, count int) error

	// MergeGuestIntoUser carries a guest's accumulated free caption count
	// into the user's subscription record, once, at registration time.
	// Safe to call redundantly.
	MergeGuestIntoUser(ctx context.Context, deviceID string, userID uuid.UUID) error
}

type GuestService struct {
	guestRepo        repositories.IGuestRepository
	subscriptionRepo repositories.ISubscriptionRepository
}

func NewGuestService(
	guestRepo repositories.IGuestRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
) GuestServiceInterface {
	return &GuestService{
		guestRepo:        guestRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (g *GuestService) TrackUsage(ctx context.Context, deviceID string, count int) error {
	if deviceID == "" || count < 0 {
		return utils.ErrInvalidInput
	}

	if err := g.guestRepo.UpsertUsage(ctx, deviceID, count); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (g *GuestService) MergeGuestIntoUser(ctx context.Context, deviceID string, userID uuid.UUID) error {

	guest, err := g.guestRepo.FindByDeviceID(ctx, deviceID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if guest == nil || guest.MergedIntoUser {
		return nil
	}

	record, err := g.subscriptionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if record == nil {
		// Merge only reconciles counts into an existing record.
		return nil
	}

	if guest.FreeCaptionCount > 0 {
		carried, err := g.subscriptionRepo.CarryOverFreeCount(ctx, userID, guest.FreeCaptionCount)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if carried {
			log.Printf("Carried over %d free captions from device %s to user %s", guest.FreeCaptionCount, deviceID, userID)
		}
	}

	// Marked merged regardless of whether the count was carried, so a
	// retry never double-applies.
	if err := g.guestRepo.MarkMerged(ctx, deviceID, userID); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}
