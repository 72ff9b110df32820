package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"captionly/internal/models/request_models"
	"captionly/internal/services"
	"captionly/pkg/utils"
)

type GuestController struct {
	guestService services.GuestServiceInterface
}

func NewGuestController(guestService services.GuestServiceInterface) *GuestController {
	return &GuestController{
		guestService: guestService,
	}
}

// TrackUsage godoc
// @Summary Report guest caption usage
// @Description Record the free caption count an anonymous device has consumed so far
// @Tags Guests
// @Accept json
// @Produce json
// @Param request body request_models.GuestUsageRequest true "Guest usage payload"
// @Success 200 {object} utils.APIResponse
// @Router /guests/usage [post]
func (gc *GuestController) TrackUsage(c *gin.Context) {

	var req request_models.GuestUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := gc.guestService.TrackUsage(c.Request.Context(), req.DeviceID, req.FreeCaptionCount); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Guest usage recorded")
}

// Merge godoc
// @Summary Merge a guest device into the authenticated user
// @Description Carry the device's free caption count into the user's record. Idempotent.
// @Tags Guests
// @Accept json
// @Produce json
// @Param request body request_models.MergeGuestRequest true "Merge payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /guests/merge [post]
func (gc *GuestController) Merge(c *gin.Context) {

	var req request_models.MergeGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID := authenticatedUserID(c)
	if userID == nil {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	if err := gc.guestService.MergeGuestIntoUser(c.Request.Context(), req.DeviceID, *userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Guest merged successfully")
}
