package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Purchase is an append-only log of verified purchase claims. The unique
// TransactionID makes verify-purchase idempotent across repeated deliveries
// of the same platform receipt.
type Purchase struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index"`
	ProductID     string    `gorm:"index"`
	TransactionID string    `gorm:"uniqueIndex;not null"`
	ExpiryDate    int64

	// Raw platform receipt payload for traceability.
	Receipt datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account Account `gorm:"foreignKey:UserID"`
}
