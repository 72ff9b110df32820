package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"captionly/internal/models/db_models"
	"captionly/internal/models/request_models"
	"captionly/internal/models/response_models"
	"captionly/internal/repositories"
	"captionly/pkg/utils"
)

// Decision is the outcome of an entitlement check for one caption request.
type Decision struct {
	Allowed     bool
	Subscribed  bool
	TrialActive bool
	Reason      string
}

type SubscriptionServiceInterface interface {
	// Evaluate decides whether the user may generate captions right now.
	// It does not consume quota; the caption flow commits usage separately
	// after the generation succeeds.
	Evaluate(ctx context.Context, userID uuid.UUID, now time.Time) (Decision, error)

	// ConsumeFreeQuota atomically takes one free generation if the cap has
	// not been reached. Returns whether the slot was taken.
	ConsumeFreeQuota(ctx context.Context, userID uuid.UUID) (bool, error)

	StartTrial(ctx context.Context, userID uuid.UUID, productID string, now time.Time) (*response_models.SubscriptionStatusResponse, error)
	VerifyPurchase(ctx context.Context, userID uuid.UUID, req request_models.VerifyPurchaseRequest, now time.Time) (*response_models.SubscriptionStatusResponse, error)
	GetStatus(ctx context.Context, userID uuid.UUID, now time.Time) (*response_models.SubscriptionStatusResponse, error)
}

type SubscriptionService struct {
	subscriptionRepo repositories.ISubscriptionRepository
	purchaseRepo     repositories.IPurchaseRepository
}

func NewSubscriptionService(
	subscriptionRepo repositories.ISubscriptionRepository,
	purchaseRepo repositories.IPurchaseRepository,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
	}
}

// loadAndRefresh reads the record and durably revokes an expired trial flag.
// Every status read goes through here so a lapsed trial can never report
// active indefinitely.
func (s *SubscriptionService) loadAndRefresh(ctx context.Context, userID uuid.UUID, now time.Time) (*db_models.UserSubscription, error) {
	record, err := s.subscriptionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if record == nil {
		return nil, nil
	}

	if record.FreeTrialEnabled && record.FreeTrialEnd <= now.Unix() {
		if err := s.subscriptionRepo.DisableTrial(ctx, userID); err != nil {
			return nil, utils.ErrDatabaseError
		}
		record.FreeTrialEnabled = false
	}

	return record, nil
}

func (s *SubscriptionService) Evaluate(ctx context.Context, userID uuid.UUID, now time.Time) (Decision, error) {

	record, err := s.loadAndRefresh(ctx, userID, now)
	if err != nil {
		// Fail closed: an unreadable store never grants access.
		return Decision{}, err
	}
	if record == nil {
		// Fresh user, nothing consumed yet.
		return Decision{Allowed: true}, nil
	}

	subscribed := record.SubscribedAt(now.Unix())
	trialActive := record.TrialActiveAt(now.Unix())

	if subscribed || trialActive || record.FreeCaptionCount < db_models.FreeCaptionLimit {
		return Decision{
			Allowed:     true,
			Subscribed:  subscribed,
			TrialActive: trialActive,
		}, nil
	}

	return Decision{Reason: "subscription required"}, nil
}

func (s *SubscriptionService) ConsumeFreeQuota(ctx context.Context, userID uuid.UUID) (bool, error) {
	consumed, err := s.subscriptionRepo.TryConsumeFreeQuota(ctx, userID, db_models.FreeCaptionLimit)
	if err != nil {
		return false, utils.ErrDatabaseError
	}
	return consumed, nil
}

func (s *SubscriptionService) StartTrial(ctx context.Context, userID uuid.UUID, productID string, now time.Time) (*response_models.SubscriptionStatusResponse, error) {

	if productID == "" {
		return nil, utils.ErrInvalidInput
	}

	record, err := s.loadAndRefresh(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if record != nil && record.FreeTrialUsed {
		return nil, utils.ErrTrialAlreadyUsed
	}

	start := now.Unix()
	end := now.Add(time.Hour * 24 * db_models.TrialDays).Unix()

	if err := s.subscriptionRepo.SaveTrial(ctx, userID, productID, start, end); err != nil {
		return nil, utils.ErrDatabaseError
	}

	log.Printf("Started free trial for user %s, product %s", userID, productID)

	return s.GetStatus(ctx, userID, now)
}

func (s *SubscriptionService) VerifyPurchase(ctx context.Context, userID uuid.UUID, req request_models.VerifyPurchaseRequest, now time.Time) (*response_models.SubscriptionStatusResponse, error) {

	if req.ProductID == "" || req.TransactionID == "" || req.ExpiryDate <= 0 {
		return nil, utils.ErrInvalidInput
	}

	if err := s.subscriptionRepo.SaveSubscription(ctx, userID, req.ProductID, now.Unix(), req.ExpiryDate); err != nil {
		return nil, utils.ErrDatabaseError
	}

	receipt := []byte("{}")
	if req.Receipt != "" && json.Valid([]byte(req.Receipt)) {
		receipt = []byte(req.Receipt)
	}

	purchase := &db_models.Purchase{
		UserID:        userID,
		ProductID:     req.ProductID,
		TransactionID: req.TransactionID,
		ExpiryDate:    req.ExpiryDate,
		Receipt:       receipt,
	}
	if err := s.purchaseRepo.Record(ctx, purchase); err != nil {
		return nil, utils.ErrDatabaseError
	}

	log.Printf("Verified purchase for user %s, product %s, txn %s", userID, req.ProductID, req.TransactionID)

	return s.GetStatus(ctx, userID, now)
}

func (s *SubscriptionService) GetStatus(ctx context.Context, userID uuid.UUID, now time.Time) (*response_models.SubscriptionStatusResponse, error) {

	record, err := s.loadAndRefresh(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &response_models.SubscriptionStatusResponse{}, nil
	}

	return &response_models.SubscriptionStatusResponse{
		IsSubscribed:     record.SubscribedAt(now.Unix()),
		FreeTrialEnabled: record.TrialActiveAt(now.Unix()),
		FreeTrialUsed:    record.FreeTrialUsed,
		FreeCaptionCount: record.FreeCaptionCount,
		TrialEnds:        record.FreeTrialEnd,
		ExpiryDate:       record.ExpiryDate,
		ProductID:        record.ProductID,
	}, nil
}
