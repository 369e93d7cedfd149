package repository

import (
	"context"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for business settings data access
type SettingsRepository interface {
	// Get returns the settings of the business in ctx, or nil if none were saved.
	Get(ctx context.Context) (*entity.BusinessSettings, error)
	Upsert(ctx context.Context, settings entity.Settings) (*entity.BusinessSettings, error)
}
