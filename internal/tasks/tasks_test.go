package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/tasks"
)

type MockIdempotencyRepo struct {
	mock.Mock
}

func (m *MockIdempotencyRepo) GetByKey(ctx context.Context, key string, businessID uuid.UUID) (*entity.IdempotencyKey, error) {
	args := m.Called(ctx, key, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IdempotencyKey), args.Error(1)
}

func (m *MockIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return m.Called(ctx, ikey).Error(0)
}

func (m *MockIdempotencyRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockSettingsCache struct {
	mock.Mock
}

func (m *MockSettingsCache) Get(ctx context.Context, businessID uuid.UUID) (*entity.Settings, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockSettingsCache) Set(ctx context.Context, businessID uuid.UUID, s entity.Settings) error {
	return m.Called(ctx, businessID, s).Error(0)
}

func (m *MockSettingsCache) Delete(ctx context.Context, businessID uuid.UUID) error {
	return m.Called(ctx, businessID).Error(0)
}

func TestHandlePurgeIdempotency(t *testing.T) {
	repo := new(MockIdempotencyRepo)
	repo.On("DeleteExpired", mock.Anything).Return(int64(3), nil).Once()

	p := tasks.NewProcessor(repo, new(MockSettingsCache))
	require.NoError(t, p.HandlePurgeIdempotency(context.Background(), tasks.NewPurgeIdempotencyTask()))
	repo.AssertExpectations(t)
}

func TestHandlePurgeIdempotency_Error(t *testing.T) {
	repo := new(MockIdempotencyRepo)
	repo.On("DeleteExpired", mock.Anything).Return(int64(0), errors.New("db down"))

	p := tasks.NewProcessor(repo, new(MockSettingsCache))
	assert.Error(t, p.HandlePurgeIdempotency(context.Background(), tasks.NewPurgeIdempotencyTask()))
}

func TestHandleInvalidateSettings(t *testing.T) {
	businessID := uuid.New()
	c := new(MockSettingsCache)
	c.On("Delete", mock.Anything, businessID).Return(nil).Once()

	task, err := tasks.NewInvalidateSettingsTask(businessID)
	require.NoError(t, err)

	p := tasks.NewProcessor(new(MockIdempotencyRepo), c)
	require.NoError(t, p.HandleInvalidateSettings(context.Background(), task))
	c.AssertExpectations(t)
}

func TestHandleInvalidateSettings_BadPayloadSkipsRetry(t *testing.T) {
	p := tasks.NewProcessor(new(MockIdempotencyRepo), new(MockSettingsCache))

	err := p.HandleInvalidateSettings(context.Background(), asynq.NewTask(tasks.TypeInvalidateSettings, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	empty, _ := json.Marshal(tasks.InvalidateSettingsPayload{})
	err = p.HandleInvalidateSettings(context.Background(), asynq.NewTask(tasks.TypeInvalidateSettings, empty))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
