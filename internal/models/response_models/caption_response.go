package response_models

type CaptionResponse struct {
	Captions []string `json:"captions"`
}
