package utils

import (
	"context"
	"fmt"
	"strings"

	"captionly/internal/models/request_models"
)

// CaptionImage is an uploaded photo handed to the generative model.
type CaptionImage struct {
	MIMEType string
	Data     []byte
}

// CaptionClientInterface generates exactly two caption variants for the
// given images and options, or fails with a descriptive error.
type CaptionClientInterface interface {
	GenerateCaptions(ctx context.Context, images []CaptionImage, opts request_models.CaptionOptions) ([]string, error)
}

// CaptionVariants is the number of alternatives returned per request.
const CaptionVariants = 2

func buildCaptionPrompt(opts request_models.CaptionOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You write social media captions. Return **JSON only**, exactly:
{"captions": ["first variant", "second variant"]}

Write %d distinct caption variants for the attached photo(s).
Mood: %s. Length: %s. Language: %s.
`, CaptionVariants, opts.Mood, opts.Length, opts.Language)

	if opts.EmojiCount > 0 {
		fmt.Fprintf(&b, "Use exactly %d emoji per caption.\n", opts.EmojiCount)
	} else {
		b.WriteString("Do not use emoji.\n")
	}
	if opts.HashtagCount > 0 {
		fmt.Fprintf(&b, "End each caption with exactly %d relevant hashtags.\n", opts.HashtagCount)
	} else {
		b.WriteString("Do not add hashtags.\n")
	}
	if strings.TrimSpace(opts.Message) != "" {
		fmt.Fprintf(&b, "Incorporate this message: %s\n", strings.TrimSpace(opts.Message))
	}

	b.WriteString("Return JSON only. No comments, no markdown.")
	return b.String()
}
