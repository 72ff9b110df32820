package db_models

import (
	"github.com/google/uuid"
)

// FreeCaptionLimit is the number of caption generations a user gets before
// a trial or subscription is required.
const FreeCaptionLimit = 2

// TrialDays is the length of the one-time free trial window.
const TrialDays = 7

// UserSubscription is the per-user entitlement record. Absence of a row is
// equivalent to the zero value: not subscribed, no trial, zero free captions
// consumed.
//
// FreeTrialUsed is monotonic: once true it is never reset, so a trial can be
// started at most once per user. FreeTrialEnabled is revoked lazily the
// first time a status read observes it active past FreeTrialEnd.
type UserSubscription struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	IsSubscribed bool   `gorm:"default:false"`
	ProductID    string `gorm:"index"`
	PurchaseDate int64
	ExpiryDate   int64

	FreeTrialEnabled bool `gorm:"default:false"`
	FreeTrialUsed    bool `gorm:"default:false"`
	FreeTrialStart   int64
	FreeTrialEnd     int64

	FreeCaptionCount int `gorm:"default:0"`

	Account Account `gorm:"foreignKey:UserID"`
}

// SubscribedAt reports whether the paid subscription grants access at the
// given unix-seconds instant.
func (s *UserSubscription) SubscribedAt(now int64) bool {
	return s.IsSubscribed && s.ExpiryDate > now
}

// TrialActiveAt reports whether the trial window grants access at the given
// unix-seconds instant. It reads the stored flag only; durable expiry
// correction is the service's job.
func (s *UserSubscription) TrialActiveAt(now int64) bool {
	return s.FreeTrialEnabled && s.FreeTrialEnd > now
}
