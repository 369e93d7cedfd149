package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/storage"
	"github.com/sangkips/hotelpos-api/pkg/apperror"
)

// LogoWidth is the width in pixels logos are scaled to for the receipt.
const LogoWidth = 384

// SettingsInvalidator tells other replicas that a business's cached
// settings changed.
type SettingsInvalidator interface {
	InvalidateSettings(ctx context.Context, businessID uuid.UUID) error
}

// SettingsService handles settings-related business logic
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	cache        cache.SettingsCache
	invalidator  SettingsInvalidator
	storage      storage.ObjectStorage
}

// NewSettingsService creates a new settings service. invalidator and
// objects may be nil when no worker or bucket is configured.
func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	settingsCache cache.SettingsCache,
	invalidator SettingsInvalidator,
	objects storage.ObjectStorage,
) *SettingsService {
	if settingsCache == nil {
		settingsCache = cache.NoopSettingsCache{}
	}
	return &SettingsService{
		settingsRepo: settingsRepo,
		cache:        settingsCache,
		invalidator:  invalidator,
		storage:      objects,
	}
}

// Current returns the settings of the business in ctx. A business that has
// never saved settings gets the defaults. Cache errors fall through to the
// database.
func (s *SettingsService) Current(ctx context.Context) (entity.Settings, error) {
	businessID, ok := infraRepo.GetBusinessID(ctx)
	if !ok {
		return entity.Settings{}, apperror.NewForbiddenError("Business context required")
	}

	cached, err := s.cache.Get(ctx, businessID)
	if err == nil && cached != nil {
		return *cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		log.Printf("Settings cache read failed for business %s: %v", businessID, err)
	}

	row, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return entity.Settings{}, err
	}

	settings := entity.DefaultSettings()
	if row != nil {
		settings = row.Data.Data()
	}

	if err := s.cache.Set(ctx, businessID, settings); err != nil {
		log.Printf("Settings cache write failed for business %s: %v", businessID, err)
	}
	return settings, nil
}

// Get returns the settings as shown to the requesting employee. Only admins
// see the PRA token.
func (s *SettingsService) Get(ctx context.Context, isAdmin bool) (entity.Settings, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return entity.Settings{}, err
	}
	if !isAdmin {
		return settings.Redacted(), nil
	}
	return settings, nil
}

// Update replaces the settings document. The stored logo is kept when the
// update does not name one.
func (s *SettingsService) Update(ctx context.Context, settings entity.Settings) (entity.Settings, error) {
	businessID, ok := infraRepo.GetBusinessID(ctx)
	if !ok {
		return entity.Settings{}, apperror.NewForbiddenError("Business context required")
	}

	if settings.LogoPath == "" {
		if current, err := s.Current(ctx); err == nil {
			settings.LogoPath = current.LogoPath
		}
	}

	row, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		return entity.Settings{}, apperror.NewInternalError("Failed to save settings", err)
	}

	s.invalidate(ctx, businessID)
	if row == nil {
		return settings, nil
	}
	return row.Data.Data(), nil
}

// UploadLogo scales a PNG or JPEG image to the receipt width, stores it and
// records its URL in the settings.
func (s *SettingsService) UploadLogo(ctx context.Context, data []byte) (entity.Settings, error) {
	if s.storage == nil {
		return entity.Settings{}, apperror.NewBadRequestError("Logo storage is not configured")
	}
	businessID, ok := infraRepo.GetBusinessID(ctx)
	if !ok {
		return entity.Settings{}, apperror.NewForbiddenError("Business context required")
	}

	encoded, err := ScaleLogo(data)
	if err != nil {
		return entity.Settings{}, err
	}

	url, err := s.storage.PutLogo(ctx, businessID, encoded, "image/png")
	if err != nil {
		log.Printf("Logo upload failed for business %s: %v", businessID, err)
		return entity.Settings{}, apperror.NewUpstreamError("Failed to upload logo", err)
	}

	settings, err := s.Current(ctx)
	if err != nil {
		return entity.Settings{}, err
	}
	settings.LogoPath = url
	return s.Update(ctx, settings)
}

// ScaleLogo decodes a PNG or JPEG image, shrinks it to LogoWidth pixels wide
// and returns it PNG-encoded. Narrower images keep their size.
func ScaleLogo(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.NewBadRequestError("Logo must be a PNG or JPEG image")
	}

	if img.Bounds().Dx() > LogoWidth {
		img = resize.Resize(LogoWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperror.NewInternalError("Failed to encode logo", err)
	}
	return buf.Bytes(), nil
}

func (s *SettingsService) invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := s.cache.Delete(ctx, businessID); err != nil {
		log.Printf("Settings cache delete failed for business %s: %v", businessID, err)
	}
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateSettings(ctx, businessID); err != nil {
		log.Printf("Failed to enqueue settings invalidation for business %s: %v", businessID, err)
	}
}
