package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"captionly/internal/models/request_models"
	"captionly/internal/services"
	"captionly/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// GetStatus godoc
// @Summary Get subscription status
// @Description Return the denormalized entitlement view for the authenticated user
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/status [get]
func (sc *SubscriptionController) GetStatus(c *gin.Context) {

	userID := authenticatedUserID(c)
	if userID == nil {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	status, err := sc.subscriptionService.GetStatus(c.Request.Context(), *userID, time.Now())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Subscription status fetched successfully")
}

// StartTrial godoc
// @Summary Start the one-time free trial
// @Description Activate the 7-day free trial for the authenticated user. Rejected if a trial was ever used.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.StartTrialRequest true "Trial payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/trial [post]
func (sc *SubscriptionController) StartTrial(c *gin.Context) {

	var req request_models.StartTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID := authenticatedUserID(c)
	if userID == nil {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	status, err := sc.subscriptionService.StartTrial(c.Request.Context(), *userID, req.ProductID, time.Now())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Free trial started successfully")
}

// VerifyPurchase godoc
// @Summary Record a verified purchase
// @Description Apply a platform-verified purchase claim to the authenticated user's subscription record. Idempotent per transaction id.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.VerifyPurchaseRequest true "Purchase payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/verify-purchase [post]
func (sc *SubscriptionController) VerifyPurchase(c *gin.Context) {

	var req request_models.VerifyPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID := authenticatedUserID(c)
	if userID == nil {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	status, err := sc.subscriptionService.VerifyPurchase(c.Request.Context(), *userID, req, time.Now())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Purchase verified successfully")
}
