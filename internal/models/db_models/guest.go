package db_models

import "github.com/google/uuid"

// Guest tracks free-caption usage for an anonymous device. The client
// enforces the guest limit itself; the server only accumulates the reported
// count so it can be carried over when the device registers.
//
// Once merged into a user the record is inert: MergedIntoUser never goes
// back to false and no further counts are accepted.
type Guest struct {
	BaseModel
	DeviceID         string `gorm:"uniqueIndex;not null"`
	FreeCaptionCount int    `gorm:"default:0"`
	MergedIntoUser   bool   `gorm:"default:false"`
	MergedUserID     *uuid.UUID
}
