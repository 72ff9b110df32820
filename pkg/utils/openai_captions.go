package utils

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"captionly/internal/models/request_models"
)

// OpenAICaptionClient is the fallback CaptionClientInterface, used when no
// Gemini key is configured.
type OpenAICaptionClient struct {
	client *openai.Client
	model  string
}

func NewOpenAICaptionClient(apiKey, model string) CaptionClientInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICaptionClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAICaptionClient) GenerateCaptions(ctx context.Context, images []CaptionImage, opts request_models.CaptionOptions) ([]string, error) {

	content := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: buildCaptionPrompt(opts)},
	}
	for _, img := range images {
		dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
		content = append(content, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: content},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no content")
	}

	var payload captionPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("openai: not valid json: %w", err)
	}
	if len(payload.Captions) < CaptionVariants {
		return nil, fmt.Errorf("openai: expected %d captions, got %d", CaptionVariants, len(payload.Captions))
	}

	return payload.Captions[:CaptionVariants], nil
}
