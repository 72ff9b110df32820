package request_models

import "strings"

// CaptionOptions enumerates every generation knob the client may send.
// Unknown fields are rejected at bind time by the controller; missing
// fields get defaults here before the options reach the caption client.
type CaptionOptions struct {
	Mood         string `json:"mood"`
	Length       string `json:"length"`
	EmojiCount   int    `json:"emoji_count"`
	HashtagCount int    `json:"hashtag_count"`
	Language     string `json:"language"`
	Message      string `json:"message"`
}

const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

func (o *CaptionOptions) ApplyDefaults() {
	if o.Mood == "" {
		o.Mood = "casual"
	}
	if o.Length == "" {
		o.Length = LengthMedium
	}
	if o.Language == "" {
		o.Language = "english"
	}
}

func (o *CaptionOptions) Validate() bool {
	switch strings.ToLower(o.Length) {
	case LengthShort, LengthMedium, LengthLong:
	default:
		return false
	}
	if o.EmojiCount < 0 || o.EmojiCount > 10 {
		return false
	}
	if o.HashtagCount < 0 || o.HashtagCount > 30 {
		return false
	}
	return true
}

type GenerateCaptionsRequest struct {
	Options  CaptionOptions `json:"options"`
	DeviceID string         `json:"device_id"`
}
