package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"captionly/internal/models/request_models"
	"captionly/internal/models/response_models"
	"captionly/pkg/utils"
)

type CaptionServiceInterface interface {
	// GenerateCaptions runs the entitlement check, calls the generative
	// model, and commits the quota mutation only after a successful
	// generation. userID is nil for anonymous guests, whose limiting is
	// enforced client-side.
	GenerateCaptions(ctx context.Context, userID *uuid.UUID, images []utils.CaptionImage, opts request_models.CaptionOptions) (*response_models.CaptionResponse, error)
}

type CaptionService struct {
	subscriptionService SubscriptionServiceInterface
	captionClient       utils.CaptionClientInterface
}

func NewCaptionService(
	subscriptionService SubscriptionServiceInterface,
	captionClient utils.CaptionClientInterface,
) CaptionServiceInterface {
	return &CaptionService{
		subscriptionService: subscriptionService,
		captionClient:       captionClient,
	}
}

func (s *CaptionService) GenerateCaptions(ctx context.Context, userID *uuid.UUID, images []utils.CaptionImage, opts request_models.CaptionOptions) (*response_models.CaptionResponse, error) {

	opts.ApplyDefaults()
	if !opts.Validate() {
		return nil, utils.ErrInvalidInput
	}
	if len(images) == 0 && opts.Message == "" {
		return nil, utils.ErrInvalidInput
	}

	now := time.Now()
	var decision Decision

	if userID != nil {
		var err error
		decision, err = s.subscriptionService.Evaluate(ctx, *userID, now)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, utils.ErrSubscriptionRequired
		}
	}

	captions, err := s.captionClient.GenerateCaptions(ctx, images, opts)
	if err != nil {
		// A failed or cancelled generation costs the user nothing; the
		// quota mutation has not happened yet.
		return nil, fmt.Errorf("%w: %v", utils.ErrCaptionGeneration, err)
	}

	if userID != nil && !decision.Subscribed && !decision.TrialActive {
		consumed, err := s.subscriptionService.ConsumeFreeQuota(ctx, *userID)
		if err != nil {
			return nil, err
		}
		if !consumed {
			// A concurrent request took the last free slot between the
			// evaluate and the commit. The cap is authoritative.
			return nil, utils.ErrSubscriptionRequired
		}
	}

	return &response_models.CaptionResponse{Captions: captions}, nil
}
