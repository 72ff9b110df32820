package utils

import "errors"

var (
	ErrSubscriptionRequired = errors.New("subscription required")
	ErrTrialAlreadyUsed     = errors.New("free trial already used")
	ErrInvalidInput         = errors.New("invalid input")
	ErrCaptionGeneration    = errors.New("caption generation failed")
	ErrDatabaseError        = errors.New("database error")

	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOtpToken    = errors.New("invalid or expired otp token")
)
