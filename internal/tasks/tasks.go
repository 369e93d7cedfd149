package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/sangkips/hotelpos-api/internal/config"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/cache"
)

// Task types
const (
	TypePurgeIdempotency   = "maintenance:purge_idempotency"
	TypeInvalidateSettings = "cache:invalidate_settings"
)

const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// RedisOpt builds the asynq connection from the Redis settings.
func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// InvalidateSettingsPayload names the business whose cached settings are stale.
type InvalidateSettingsPayload struct {
	BusinessID uuid.UUID `json:"business_id"`
}

// NewInvalidateSettingsTask creates a cache invalidation task.
func NewInvalidateSettingsTask(businessID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(InvalidateSettingsPayload{BusinessID: businessID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInvalidateSettings, payload, asynq.MaxRetry(5), asynq.Queue(QueueDefault)), nil
}

// NewPurgeIdempotencyTask creates the expired idempotency key sweep.
func NewPurgeIdempotencyTask() *asynq.Task {
	return asynq.NewTask(TypePurgeIdempotency, nil, asynq.MaxRetry(1), asynq.Queue(QueueLow))
}

// Dispatcher enqueues tasks from the API process.
type Dispatcher struct {
	client *asynq.Client
}

// NewDispatcher wraps an asynq client.
func NewDispatcher(client *asynq.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// InvalidateSettings schedules removal of a business's cached settings.
// The short delay lets in-flight reads that loaded the old document finish
// writing it back before it is deleted.
func (d *Dispatcher) InvalidateSettings(ctx context.Context, businessID uuid.UUID) error {
	task, err := NewInvalidateSettingsTask(businessID)
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.ProcessIn(2*time.Second))
	return err
}

// Processor runs the worker side of each task.
type Processor struct {
	idempotencyRepo repository.IdempotencyRepository
	settingsCache   cache.SettingsCache
}

// NewProcessor creates a task processor.
func NewProcessor(idempotencyRepo repository.IdempotencyRepository, settingsCache cache.SettingsCache) *Processor {
	return &Processor{
		idempotencyRepo: idempotencyRepo,
		settingsCache:   settingsCache,
	}
}

// HandlePurgeIdempotency deletes expired idempotency keys.
func (p *Processor) HandlePurgeIdempotency(ctx context.Context, t *asynq.Task) error {
	n, err := p.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge idempotency keys: %w", err)
	}
	if n > 0 {
		log.Printf("Purged %d expired idempotency keys", n)
	}
	return nil
}

// HandleInvalidateSettings deletes a business's cached settings.
func (p *Processor) HandleInvalidateSettings(ctx context.Context, t *asynq.Task) error {
	var payload InvalidateSettingsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal settings payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.BusinessID == uuid.Nil {
		return fmt.Errorf("missing business id: %w", asynq.SkipRetry)
	}
	return p.settingsCache.Delete(ctx, payload.BusinessID)
}

// NewServeMux registers every handler.
func NewServeMux(p *Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePurgeIdempotency, p.HandlePurgeIdempotency)
	mux.HandleFunc(TypeInvalidateSettings, p.HandleInvalidateSettings)
	return mux
}

// NewServer configures the worker server.
func NewServer(redisOpt asynq.RedisClientOpt, cfg *config.QueueConfig) *asynq.Server {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueDefault: 6,
			QueueLow:     1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("[asynq] task %s failed: %v", task.Type(), err)
		}),
	})
}

// NewScheduler registers the periodic maintenance tasks.
func NewScheduler(redisOpt asynq.RedisClientOpt, cfg *config.QueueConfig) (*asynq.Scheduler, error) {
	interval := cfg.PurgeInterval
	if interval <= 0 {
		interval = time.Hour
	}
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
	})
	if _, err := scheduler.Register("@every "+interval.String(), NewPurgeIdempotencyTask()); err != nil {
		return nil, fmt.Errorf("register purge task: %w", err)
	}
	return scheduler, nil
}
