package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"captionly/internal/models/request_models"
	"captionly/internal/services"
	"captionly/pkg/utils"
)

// Photos above this size are rejected before they reach the model.
const maxImageBytes = 8 << 20

type CaptionController struct {
	captionService services.CaptionServiceInterface
}

func NewCaptionController(captionService services.CaptionServiceInterface) *CaptionController {
	return &CaptionController{
		captionService: captionService,
	}
}

// GenerateCaptions godoc
// @Summary Generate two caption variants
// @Description Generate captions for uploaded photos and/or a text message. Authenticated users are quota-checked; guests are limited client-side.
// @Tags Captions
// @Accept multipart/form-data
// @Produce json
// @Param images formData file false "Photos to caption"
// @Param options formData string false "Generation options JSON"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /captions/generate [post]
func (cc *CaptionController) GenerateCaptions(c *gin.Context) {

	var opts request_models.CaptionOptions
	if raw := c.PostForm("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid options format")
			return
		}
	}

	form, err := c.MultipartForm()
	if err != nil && opts.Message == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	var images []utils.CaptionImage
	if form != nil {
		for _, fh := range form.File["images"] {
			if fh.Size > maxImageBytes {
				utils.RespondError(c, http.StatusBadRequest, "Image too large")
				return
			}
			f, err := fh.Open()
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "Could not read uploaded image")
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "Could not read uploaded image")
				return
			}
			mime := fh.Header.Get("Content-Type")
			if mime == "" {
				mime = http.DetectContentType(data)
			}
			images = append(images, utils.CaptionImage{MIMEType: mime, Data: data})
		}
	}

	userID := authenticatedUserID(c)

	result, err := cc.captionService.GenerateCaptions(c.Request.Context(), userID, images, opts)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Captions generated successfully")
}

// authenticatedUserID returns the verified user id set by the JWT
// middleware, or nil for anonymous requests.
func authenticatedUserID(c *gin.Context) *uuid.UUID {
	raw := c.GetString("user_id")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
