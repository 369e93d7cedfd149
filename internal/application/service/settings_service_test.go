package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
)

type memStorage struct {
	key  uuid.UUID
	data []byte
}

func (m *memStorage) PutLogo(_ context.Context, businessID uuid.UUID, data []byte, _ string) (string, error) {
	m.key, m.data = businessID, data
	return "https://cdn.example.com/logos/" + businessID.String() + "/logo.png", nil
}

func TestSettingsService_Current(t *testing.T) {
	businessID := uuid.New()
	ctx := infraRepo.WithBusiness(context.Background(), businessID)

	t.Run("cache hit skips the database", func(t *testing.T) {
		repo, c := new(mockSettingsRepo), new(mockSettingsCache)
		cached := entity.Settings{RestaurantName: "Cached"}
		c.On("Get", ctx, businessID).Return(&cached, nil).Once()

		svc := NewSettingsService(repo, c, nil, nil)
		got, err := svc.Current(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Cached", got.RestaurantName)
		repo.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("miss loads defaults and fills the cache", func(t *testing.T) {
		repo, c := new(mockSettingsRepo), new(mockSettingsCache)
		c.On("Get", ctx, businessID).Return(nil, cache.ErrMiss).Once()
		repo.On("Get", ctx).Return(nil, nil).Once()
		c.On("Set", ctx, businessID, entity.DefaultSettings()).Return(nil).Once()

		svc := NewSettingsService(repo, c, nil, nil)
		got, err := svc.Current(ctx)

		require.NoError(t, err)
		assert.Equal(t, entity.DefaultSettings(), got)
		c.AssertExpectations(t)
	})

	t.Run("cache failure falls through", func(t *testing.T) {
		repo, c := new(mockSettingsRepo), new(mockSettingsCache)
		stored := entity.Settings{RestaurantName: "Stored"}
		c.On("Get", ctx, businessID).Return(nil, errors.New("redis down")).Once()
		repo.On("Get", ctx).Return(&entity.BusinessSettings{Data: datatypes.NewJSONType(stored)}, nil).Once()
		c.On("Set", ctx, businessID, stored).Return(errors.New("redis down")).Once()

		svc := NewSettingsService(repo, c, nil, nil)
		got, err := svc.Current(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Stored", got.RestaurantName)
	})

	t.Run("no business in context", func(t *testing.T) {
		svc := NewSettingsService(new(mockSettingsRepo), nil, nil, nil)
		_, err := svc.Current(context.Background())
		assert.Error(t, err)
	})
}

func TestSettingsService_GetRedactsForNonAdmin(t *testing.T) {
	businessID := uuid.New()
	ctx := infraRepo.WithBusiness(context.Background(), businessID)
	c := new(mockSettingsCache)
	c.On("Get", ctx, businessID).Return(&entity.Settings{PRAToken: "secret"}, nil)

	svc := NewSettingsService(new(mockSettingsRepo), c, nil, nil)

	cashier, err := svc.Get(ctx, false)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", cashier.PRAToken)

	admin, err := svc.Get(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "secret", admin.PRAToken)
}

func TestSettingsService_UpdateInvalidates(t *testing.T) {
	businessID := uuid.New()
	ctx := infraRepo.WithBusiness(context.Background(), businessID)
	repo, c, inv := new(mockSettingsRepo), new(mockSettingsCache), new(mockInvalidator)

	current := entity.Settings{LogoPath: "https://cdn/logo.png"}
	c.On("Get", ctx, businessID).Return(&current, nil).Once()
	repo.On("Upsert", ctx, mock.MatchedBy(func(s entity.Settings) bool {
		return s.RestaurantName == "Karahi House" && s.LogoPath == "https://cdn/logo.png"
	})).Return(nil, nil).Once()
	c.On("Delete", ctx, businessID).Return(nil).Once()
	inv.On("InvalidateSettings", ctx, businessID).Return(errors.New("queue down")).Once()

	svc := NewSettingsService(repo, c, inv, nil)
	got, err := svc.Update(ctx, entity.Settings{RestaurantName: "Karahi House"})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn/logo.png", got.LogoPath)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
	inv.AssertExpectations(t)
}

func pngOfWidth(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestScaleLogo(t *testing.T) {
	out, err := ScaleLogo(pngOfWidth(t, 800, 400))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, LogoWidth, img.Bounds().Dx())
	assert.Equal(t, 192, img.Bounds().Dy())

	small, err := ScaleLogo(pngOfWidth(t, 100, 50))
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())

	_, err = ScaleLogo([]byte("not an image"))
	assert.Error(t, err)
}

func TestSettingsService_UploadLogo(t *testing.T) {
	businessID := uuid.New()
	ctx := infraRepo.WithBusiness(context.Background(), businessID)
	repo, c := new(mockSettingsRepo), new(mockSettingsCache)
	objects := &memStorage{}

	c.On("Get", ctx, businessID).Return(&entity.Settings{RestaurantName: "Inn"}, nil)
	repo.On("Upsert", ctx, mock.MatchedBy(func(s entity.Settings) bool {
		return s.RestaurantName == "Inn" && s.LogoPath != ""
	})).Return(nil, nil).Once()
	c.On("Delete", ctx, businessID).Return(nil).Once()

	svc := NewSettingsService(repo, c, nil, objects)
	got, err := svc.UploadLogo(ctx, pngOfWidth(t, 500, 100))

	require.NoError(t, err)
	assert.Equal(t, businessID, objects.key)
	assert.NotEmpty(t, objects.data)
	assert.Contains(t, got.LogoPath, businessID.String())
	repo.AssertExpectations(t)
}

func TestSettingsService_UploadLogoWithoutStorage(t *testing.T) {
	ctx := infraRepo.WithBusiness(context.Background(), uuid.New())
	svc := NewSettingsService(new(mockSettingsRepo), nil, nil, nil)

	_, err := svc.UploadLogo(ctx, pngOfWidth(t, 10, 10))

	assert.Error(t, err)
}
