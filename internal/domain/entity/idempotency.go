package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores the response of a processed request so a retried
// invoice save replays it instead of creating a second invoice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_business_key"`
	BusinessID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_idempotency_business_key"`
	EmployeeID   uuid.UUID `gorm:"type:varchar(36);not null;index"`
	Endpoint     string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// BeforeCreate generates a UUID before storing the key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
