package response_models

// SubscriptionStatusResponse is the denormalized status view returned to the
// client after lazy trial expiry has been applied.
type SubscriptionStatusResponse struct {
	IsSubscribed     bool   `json:"is_subscribed"`
	FreeTrialEnabled bool   `json:"free_trial_enabled"`
	FreeTrialUsed    bool   `json:"free_trial_used"`
	FreeCaptionCount int    `json:"free_caption_count"`
	TrialEnds        int64  `json:"trial_ends,omitempty"`
	ExpiryDate       int64  `json:"expiry_date,omitempty"`
	ProductID        string `json:"product_id,omitempty"`
}
