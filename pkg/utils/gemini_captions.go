package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"captionly/internal/models/request_models"
)

// GeminiCaptionClient implements CaptionClientInterface using Google's
// Gemini models.
type GeminiCaptionClient struct {
	client *genai.Client
	model  string
}

func NewGeminiCaptionClient(apiKey, model string) (CaptionClientInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiCaptionClient{
		client: client,
		model:  model,
	}, nil
}

type captionPayload struct {
	Captions []string `json:"captions"`
}

func (c *GeminiCaptionClient) GenerateCaptions(ctx context.Context, images []CaptionImage, opts request_models.CaptionOptions) ([]string, error) {

	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output so no brace-matching cleanup is needed.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.8)
	m.SetTopP(0.9)
	m.SetMaxOutputTokens(1024)

	parts := make([]genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}
	parts = append(parts, genai.Text(buildCaptionPrompt(opts)))

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: no content")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	var payload captionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("gemini: not valid json: %w", err)
	}
	if len(payload.Captions) < CaptionVariants {
		return nil, fmt.Errorf("gemini: expected %d captions, got %d", CaptionVariants, len(payload.Captions))
	}

	return payload.Captions[:CaptionVariants], nil
}
