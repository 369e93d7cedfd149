package repository

import (
	"context"
	"errors"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the settings document of the business in ctx
func (r *settingsRepository) Get(ctx context.Context) (*entity.BusinessSettings, error) {
	var settings entity.BusinessSettings
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Upsert inserts or replaces the settings document of the business in ctx
func (r *settingsRepository) Upsert(ctx context.Context, data entity.Settings) (*entity.BusinessSettings, error) {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return nil, errors.New("business context required")
	}

	row := &entity.BusinessSettings{
		BusinessID: businessID,
		Data:       datatypes.NewJSONType(data),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx)
}
