package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"captionly/internal/models/db_models"
	"captionly/internal/models/request_models"
	"captionly/pkg/utils"
)

type SubscriptionRepoMock struct{ mock.Mock }

func (m *SubscriptionRepoMock) FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.UserSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db_models.UserSubscription), args.Error(1)
}
func (m *SubscriptionRepoMock) SaveTrial(ctx context.Context, userID uuid.UUID, productID string, start, end int64) error {
	return m.Called(ctx, userID, productID, start, end).Error(0)
}
func (m *SubscriptionRepoMock) SaveSubscription(ctx context.Context, userID uuid.UUID, productID string, purchaseDate, expiryDate int64) error {
	return m.Called(ctx, userID, productID, purchaseDate, expiryDate).Error(0)
}
func (m *SubscriptionRepoMock) DisableTrial(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *SubscriptionRepoMock) TryConsumeFreeQuota(ctx context.Context, userID uuid.UUID, limit int) (bool, error) {
	args := m.Called(ctx, userID, limit)
	return args.Bool(0), args.Error(1)
}
func (m *SubscriptionRepoMock) CarryOverFreeCount(ctx context.Context, userID uuid.UUID, count int) (bool, error) {
	args := m.Called(ctx, userID, count)
	return args.Bool(0), args.Error(1)
}

type PurchaseRepoMock struct{ mock.Mock }

func (m *PurchaseRepoMock) Record(ctx context.Context, purchase *db_models.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func TestSubscriptionService_Evaluate(t *testing.T) {
	userID := uuid.New()
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name        string
		setupMocks  func(r *SubscriptionRepoMock)
		wantAllowed bool
		wantSub     bool
		wantTrial   bool
		wantErr     error
	}{
		{
			name: "fresh user with no record is allowed",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).Return(nil, nil).Once()
			},
			wantAllowed: true,
		},
		{
			name: "free quota remaining is allowed",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{UserID: userID, FreeCaptionCount: 1}, nil).Once()
			},
			wantAllowed: true,
		},
		{
			name: "free quota exhausted is denied",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{UserID: userID, FreeCaptionCount: 2}, nil).Once()
			},
			wantAllowed: false,
		},
		{
			name: "active subscription overrides exhausted quota",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{
						UserID:           userID,
						IsSubscribed:     true,
						ExpiryDate:       now.Add(time.Hour).Unix(),
						FreeCaptionCount: 2,
					}, nil).Once()
			},
			wantAllowed: true,
			wantSub:     true,
		},
		{
			name: "expired subscription does not grant access",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{
						UserID:           userID,
						IsSubscribed:     true,
						ExpiryDate:       now.Add(-time.Hour).Unix(),
						FreeCaptionCount: 2,
					}, nil).Once()
			},
			wantAllowed: false,
		},
		{
			name: "active trial overrides exhausted quota",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{
						UserID:           userID,
						FreeTrialEnabled: true,
						FreeTrialUsed:    true,
						FreeTrialEnd:     now.Add(time.Hour).Unix(),
						FreeCaptionCount: 2,
					}, nil).Once()
			},
			wantAllowed: true,
			wantTrial:   true,
		},
		{
			name: "expired trial is revoked and denied",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).
					Return(&db_models.UserSubscription{
						UserID:           userID,
						FreeTrialEnabled: true,
						FreeTrialUsed:    true,
						FreeTrialEnd:     now.Add(-time.Hour).Unix(),
						FreeCaptionCount: 2,
					}, nil).Once()
				r.On("DisableTrial", mock.Anything, userID).Return(nil).Once()
			},
			wantAllowed: false,
		},
		{
			name: "store failure fails closed",
			setupMocks: func(r *SubscriptionRepoMock) {
				r.On("FindByUserID", mock.Anything, userID).
					Return(nil, assert.AnError).Once()
			},
			wantErr: utils.ErrDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SubscriptionRepoMock)
			tt.setupMocks(repo)
			svc := NewSubscriptionService(repo, new(PurchaseRepoMock))

			decision, err := svc.Evaluate(context.Background(), userID, now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, decision.Allowed)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantAllowed, decision.Allowed)
				assert.Equal(t, tt.wantSub, decision.Subscribed)
				assert.Equal(t, tt.wantTrial, decision.TrialActive)
				if !tt.wantAllowed {
					assert.Equal(t, "subscription required", decision.Reason)
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_StartTrial(t *testing.T) {
	userID := uuid.New()
	now := time.Unix(1_700_000_000, 0)
	wantEnd := now.Add(7 * 24 * time.Hour).Unix()

	t.Run("first trial succeeds with a seven day window", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		repo.On("FindByUserID", mock.Anything, userID).Return(nil, nil).Once()
		repo.On("SaveTrial", mock.Anything, userID, "premium_monthly", now.Unix(), wantEnd).Return(nil).Once()
		repo.On("FindByUserID", mock.Anything, userID).
			Return(&db_models.UserSubscription{
				UserID:           userID,
				FreeTrialEnabled: true,
				FreeTrialUsed:    true,
				FreeTrialStart:   now.Unix(),
				FreeTrialEnd:     wantEnd,
			}, nil).Once()

		svc := NewSubscriptionService(repo, new(PurchaseRepoMock))
		status, err := svc.StartTrial(context.Background(), userID, "premium_monthly", now)

		require.NoError(t, err)
		assert.True(t, status.FreeTrialEnabled)
		assert.True(t, status.FreeTrialUsed)
		assert.Equal(t, wantEnd, status.TrialEnds)
		repo.AssertExpectations(t)
	})

	t.Run("second trial is rejected and record untouched", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		repo.On("FindByUserID", mock.Anything, userID).
			Return(&db_models.UserSubscription{
				UserID:        userID,
				FreeTrialUsed: true,
			}, nil).Once()

		svc := NewSubscriptionService(repo, new(PurchaseRepoMock))
		_, err := svc.StartTrial(context.Background(), userID, "premium_monthly", now)

		assert.ErrorIs(t, err, utils.ErrTrialAlreadyUsed)
		repo.AssertNotCalled(t, "SaveTrial", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trial already used survives trial expiry", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		repo.On("FindByUserID", mock.Anything, userID).
			Return(&db_models.UserSubscription{
				UserID:           userID,
				FreeTrialEnabled: true,
				FreeTrialUsed:    true,
				FreeTrialEnd:     now.Add(-time.Hour).Unix(),
			}, nil).Once()
		repo.On("DisableTrial", mock.Anything, userID).Return(nil).Once()

		svc := NewSubscriptionService(repo, new(PurchaseRepoMock))
		_, err := svc.StartTrial(context.Background(), userID, "premium_monthly", now)

		assert.ErrorIs(t, err, utils.ErrTrialAlreadyUsed)
		repo.AssertExpectations(t)
	})

	t.Run("empty product id is invalid", func(t *testing.T) {
		svc := NewSubscriptionService(new(SubscriptionRepoMock), new(PurchaseRepoMock))
		_, err := svc.StartTrial(context.Background(), userID, "", now)
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})
}

func TestSubscriptionService_VerifyPurchase(t *testing.T) {
	userID := uuid.New()
	now := time.Unix(1_700_000_000, 0)
	expiry := now.Add(30 * 24 * time.Hour).Unix()
	req := request_models.VerifyPurchaseRequest{
		ProductID:     "premium_yearly",
		TransactionID: "txn-123",
		ExpiryDate:    expiry,
	}

	t.Run("applying the same claim twice yields identical state", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		purchases := new(PurchaseRepoMock)

		record := &db_models.UserSubscription{
			UserID:       userID,
			IsSubscribed: true,
			ProductID:    req.ProductID,
			PurchaseDate: now.Unix(),
			ExpiryDate:   expiry,
		}
		repo.On("SaveSubscription", mock.Anything, userID, req.ProductID, now.Unix(), expiry).Return(nil).Twice()
		repo.On("FindByUserID", mock.Anything, userID).Return(record, nil).Twice()
		purchases.On("Record", mock.Anything, mock.MatchedBy(func(p *db_models.Purchase) bool {
			return p.TransactionID == "txn-123" && p.ProductID == "premium_yearly"
		})).Return(nil).Twice()

		svc := NewSubscriptionService(repo, purchases)

		first, err := svc.VerifyPurchase(context.Background(), userID, req, now)
		require.NoError(t, err)
		second, err := svc.VerifyPurchase(context.Background(), userID, req, now)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.True(t, first.IsSubscribed)
		assert.Equal(t, expiry, first.ExpiryDate)
		repo.AssertExpectations(t)
		purchases.AssertExpectations(t)
	})

	t.Run("missing fields are invalid", func(t *testing.T) {
		svc := NewSubscriptionService(new(SubscriptionRepoMock), new(PurchaseRepoMock))

		for _, bad := range []request_models.VerifyPurchaseRequest{
			{TransactionID: "txn", ExpiryDate: expiry},
			{ProductID: "p", ExpiryDate: expiry},
			{ProductID: "p", TransactionID: "txn"},
		} {
			_, err := svc.VerifyPurchase(context.Background(), userID, bad, now)
			assert.ErrorIs(t, err, utils.ErrInvalidInput)
		}
	})
}

func TestSubscriptionService_GetStatus_LazyTrialExpiry(t *testing.T) {
	userID := uuid.New()
	now := time.Unix(1_700_000_000, 0)

	repo := new(SubscriptionRepoMock)
	// First read observes the stale active flag and corrects it durably.
	repo.On("FindByUserID", mock.Anything, userID).
		Return(&db_models.UserSubscription{
			UserID:           userID,
			FreeTrialEnabled: true,
			FreeTrialUsed:    true,
			FreeTrialEnd:     now.Add(-time.Minute).Unix(),
		}, nil).Once()
	repo.On("DisableTrial", mock.Anything, userID).Return(nil).Once()
	// Second read sees the corrected record, no further write.
	repo.On("FindByUserID", mock.Anything, userID).
		Return(&db_models.UserSubscription{
			UserID:           userID,
			FreeTrialEnabled: false,
			FreeTrialUsed:    true,
			FreeTrialEnd:     now.Add(-time.Minute).Unix(),
		}, nil).Once()

	svc := NewSubscriptionService(repo, new(PurchaseRepoMock))

	first, err := svc.GetStatus(context.Background(), userID, now)
	require.NoError(t, err)
	assert.False(t, first.FreeTrialEnabled)
	assert.True(t, first.FreeTrialUsed)

	second, err := svc.GetStatus(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "DisableTrial", 1)
}

// fakeQuotaRepo implements the same conditional-increment contract as the
// SQL store, guarded by a mutex, so the concurrency property can be
// exercised in-process.
type fakeQuotaRepo struct {
	SubscriptionRepoMock
	mu    sync.Mutex
	count int
}

func (f *fakeQuotaRepo) TryConsumeFreeQuota(ctx context.Context, userID uuid.UUID, limit int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.count >= limit {
		return false, nil
	}
	f.count++
	return true, nil
}

func (f *fakeQuotaRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.UserSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.count == 0 {
		return nil, nil
	}
	return &db_models.UserSubscription{UserID: userID, FreeCaptionCount: f.count}, nil
}

func TestSubscriptionService_FirstTwoAllowedThirdDenied(t *testing.T) {
	userID := uuid.New()
	now := time.Unix(1_700_000_000, 0)

	repo := &fakeQuotaRepo{}
	svc := NewSubscriptionService(repo, new(PurchaseRepoMock))

	for i := 0; i < db_models.FreeCaptionLimit; i++ {
		decision, err := svc.Evaluate(context.Background(), userID, now)
		require.NoError(t, err)
		require.True(t, decision.Allowed, "call %d should be allowed", i+1)

		consumed, err := svc.ConsumeFreeQuota(context.Background(), userID)
		require.NoError(t, err)
		require.True(t, consumed)
	}

	decision, err := svc.Evaluate(context.Background(), userID, now)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "subscription required", decision.Reason)
	assert.Equal(t, db_models.FreeCaptionLimit, repo.count)
}

func TestSubscriptionService_ConcurrentQuotaConsumption(t *testing.T) {
	const n = 16
	userID := uuid.New()

	repo := &fakeQuotaRepo{}
	svc := NewSubscriptionService(repo, new(PurchaseRepoMock))

	var wg sync.WaitGroup
	results := make(chan bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumed, err := svc.ConsumeFreeQuota(context.Background(), userID)
			assert.NoError(t, err)
			results <- consumed
		}()
	}
	wg.Wait()
	close(results)

	allowed := 0
	for consumed := range results {
		if consumed {
			allowed++
		}
	}

	assert.Equal(t, db_models.FreeCaptionLimit, allowed)
	assert.Equal(t, db_models.FreeCaptionLimit, repo.count)
}
