package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"captionly/internal/models/db_models"
	"captionly/pkg/utils"
)

type GuestRepoMock struct{ mock.Mock }

func (m *GuestRepoMock) FindByDeviceID(ctx context.Context, deviceID string) (*db_models.Guest, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db_models.Guest), args.Error(1)
}
func (m *GuestRepoMock) UpsertUsage(ctx context.Context, deviceID string, count int) error {
	return m.Called(ctx, deviceID, count).Error(0)
}
func (m *GuestRepoMock) MarkMerged(ctx context.Context, deviceID string, userID uuid.UUID) error {
	return m.Called(ctx, deviceID, userID).Error(0)
}

func TestGuestService_MergeGuestIntoUser(t *testing.T) {
	userID := uuid.New()
	const deviceID = "device-abc"

	tests := []struct {
		name       string
		setupMocks func(g *GuestRepoMock, s *SubscriptionRepoMock)
	}{
		{
			name: "no guest record is a no-op",
			setupMocks: func(g *GuestRepoMock, s *SubscriptionRepoMock) {
				g.On("FindByDeviceID", mock.Anything, deviceID).Return(nil, nil).Once()
			},
		},
		{
			name: "already merged guest is a no-op",
			setupMocks: func(g *GuestRepoMock, s *SubscriptionRepoMock) {
				g.On("FindByDeviceID", mock.Anything, deviceID).
					Return(&db_models.Guest{DeviceID: deviceID, FreeCaptionCount: 5, MergedIntoUser: true}, nil).Once()
			},
		},
		{
			name: "missing user record is a no-op",
			setupMocks: func(g *GuestRepoMock, s *SubscriptionRepoMock) {
				g.On("FindByDeviceID", mock.Anything, deviceID).
					Return(&db_models.Guest{DeviceID: deviceID, FreeCaptionCount: 5}, nil).Once()
				s.On("FindByUserID", mock.Anything, userID).Return(nil, nil).Once()
			},
		},
		{
			name: "count carried over when user count is zero",
			setupMocks: func(g *GuestRepoMock, s *SubscriptionRepoMock) {
				g.On("FindByDeviceID", mock.Anything, deviceID).
					Return(&db_models.Guest{DeviceID: deviceID, FreeCaptionCount: 5}, nil).Once()
				s.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{UserID: userID, FreeCaptionCount: 0}, nil).Once()
				s.On("CarryOverFreeCount", mock.Anything, userID, 5).Return(true, nil).Once()
				g.On("MarkMerged", mock.Anything, deviceID, userID).Return(nil).Once()
			},
		},
		{
			name: "nonzero user count is not overwritten but merge still marked",
			setupMocks: func(g *GuestRepoMock, s *SubscriptionRepoMock) {
				g.On("FindByDeviceID", mock.Anything, deviceID).
					Return(&db_models.Guest{DeviceID: deviceID, FreeCaptionCount: 5}, nil).Once()
				s.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{UserID: userID, FreeCaptionCount: 1}, nil).Once()
				s.On("CarryOverFreeCount", mock.Anything, userID, 5).Return(false, nil).Once()
				g.On("MarkMerged", mock.Anything, deviceID, userID).Return(nil).Once()
			},
		},
		{
			name: "zero guest count skips carry-over but still marks merged",
			setupMocks: func(g *GuestRepoMock, s *SubscriptionRepoMock) {
				g.On("FindByDeviceID", mock.Anything, deviceID).
					Return(&db_models.Guest{DeviceID: deviceID, FreeCaptionCount: 0}, nil).Once()
				s.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{UserID: userID}, nil).Once()
				g.On("MarkMerged", mock.Anything, deviceID, userID).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guestRepo := new(GuestRepoMock)
			subRepo := new(SubscriptionRepoMock)
			tt.setupMocks(guestRepo, subRepo)

			svc := NewGuestService(guestRepo, subRepo)
			err := svc.MergeGuestIntoUser(context.Background(), deviceID, userID)

			require.NoError(t, err)
			guestRepo.AssertExpectations(t)
			subRepo.AssertExpectations(t)
		})
	}
}

func TestGuestService_MergeIsIdempotent(t *testing.T) {
	userID := uuid.New()
	const deviceID = "device-abc"

	guestRepo := new(GuestRepoMock)
	subRepo := new(SubscriptionRepoMock)

	// First call performs the merge.
	guestRepo.On("FindByDeviceID", mock.Anything, deviceID).
		Return(&db_models.Guest{DeviceID: deviceID, FreeCaptionCount: 5}, nil).Once()
	subRepo.On("FindByUserID", mock.Anything, userID).
		Return(&db_models.UserSubscription{UserID: userID, FreeCaptionCount: 0}, nil).Once()
	subRepo.On("CarryOverFreeCount", mock.Anything, userID, 5).Return(true, nil).Once()
	guestRepo.On("MarkMerged", mock.Anything, deviceID, userID).Return(nil).Once()

	// Second call sees the merged record and stops.
	guestRepo.On("FindByDeviceID", mock.Anything, deviceID).
		Return(&db_models.Guest{DeviceID: deviceID, FreeCaptionCount: 5, MergedIntoUser: true}, nil).Once()

	svc := NewGuestService(guestRepo, subRepo)

	require.NoError(t, svc.MergeGuestIntoUser(context.Background(), deviceID, userID))
	require.NoError(t, svc.MergeGuestIntoUser(context.Background(), deviceID, userID))

	guestRepo.AssertExpectations(t)
	subRepo.AssertExpectations(t)
	subRepo.AssertNumberOfCalls(t, "CarryOverFreeCount", 1)
	guestRepo.AssertNumberOfCalls(t, "MarkMerged", 1)
}

func TestGuestService_TrackUsage(t *testing.T) {
	t.Run("valid usage is recorded", func(t *testing.T) {
		guestRepo := new(GuestRepoMock)
		guestRepo.On("UpsertUsage", mock.Anything, "device-abc", 3).Return(nil).Once()

		svc := NewGuestService(guestRepo, new(SubscriptionRepoMock))
		require.NoError(t, svc.TrackUsage(context.Background(), "device-abc", 3))
		guestRepo.AssertExpectations(t)
	})

	t.Run("missing device id is invalid", func(t *testing.T) {
		svc := NewGuestService(new(GuestRepoMock), new(SubscriptionRepoMock))
		assert.ErrorIs(t, svc.TrackUsage(context.Background(), "", 3), utils.ErrInvalidInput)
	})

	t.Run("negative count is invalid", func(t *testing.T) {
		svc := NewGuestService(new(GuestRepoMock), new(SubscriptionRepoMock))
		assert.ErrorIs(t, svc.TrackUsage(context.Background(), "device-abc", -1), utils.ErrInvalidInput)
	})
}
