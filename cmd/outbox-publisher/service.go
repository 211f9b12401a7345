package main

import (
	"context"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	"github.com/wrenchworks/mechshop-backend/pkg/logger"
	"github.com/wrenchworks/mechshop-backend/pkg/metrics"
)

const (
	defaultBatchSize      = 50
	defaultPollMs         = 500
	defaultMaxAttempts    = 10
	defaultPublishTimeout = 15 * time.Second

	workerName = "outbox-publisher"
)

type outboxRepository interface {
	FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

// gcpPublisher adapts the pubsub v2 Publisher to the narrow interface the
// drain loop needs, so tests can run without a broker.
type gcpPublisher struct {
	inner *gcppubsub.Publisher
}

func (p gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.inner.Publish(ctx, msg)
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	Publisher  publisher
	Metrics    *metrics.WorkerMetrics
}

// Service drains pending outbox rows and publishes them to the ticket events
// topic. Rows that keep failing are capped at MaxAttempts and left behind for
// inspection.
type Service struct {
	cfg            *config.Config
	logg           *logger.Logger
	repo           outboxRepository
	pub            publisher
	workerMetrics  *metrics.WorkerMetrics
	batchSize      int
	pollInterval   time.Duration
	maxAttempts    int
	publishTimeout time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}

	batchSize := params.Config.Outbox.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		cfg:            params.Config,
		logg:           params.Logger,
		repo:           params.Repository,
		pub:            params.Publisher,
		workerMetrics:  params.Metrics,
		batchSize:      batchSize,
		pollInterval:   time.Duration(pollMs) * time.Millisecond,
		maxAttempts:    maxAttempts,
		publishTimeout: defaultPublishTimeout,
	}, nil
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.DrainOnce(ctx); err != nil {
				s.warn(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce publishes one batch of pending events and reports how many rows
// were handled.
func (s *Service) DrainOnce(ctx context.Context) (int, error) {
	started := time.Now()
	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished events: %w", err)
	}

	for i := range events {
		s.publishEvent(ctx, &events[i])
	}

	if s.workerMetrics != nil && len(events) > 0 {
		s.workerMetrics.ObserveBatch(workerName, time.Since(started))
	}
	return len(events), nil
}

func (s *Service) publishEvent(ctx context.Context, event *models.OutboxEvent) {
	publishCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	result := s.pub.Publish(publishCtx, &gcppubsub.Message{
		Data: event.Payload,
		Attributes: map[string]string{
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
			"outbox_id":      event.ID.String(),
		},
	})

	if _, err := result.Get(publishCtx); err != nil {
		if s.workerMetrics != nil {
			s.workerMetrics.IncFailed(workerName)
		}
		s.warn(ctx, "outbox event publish failed", err)
		if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
			s.warn(ctx, "failed to record publish failure", markErr)
		}
		return
	}

	if err := s.repo.MarkPublished(event.ID); err != nil {
		s.warn(ctx, "failed to mark event published", err)
		return
	}
	if s.workerMetrics != nil {
		s.workerMetrics.IncPublished(workerName)
	}
}

func (s *Service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
