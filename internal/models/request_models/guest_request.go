package request_models

type GuestUsageRequest struct {
	DeviceID         string `json:"device_id" binding:"required"`
	FreeCaptionCount int    `json:"free_caption_count" binding:"min=0"`
}

type MergeGuestRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}
