package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	"github.com/voluntr/volunteer-api/pkg/logger"
	"github.com/voluntr/volunteer-api/pkg/messaging"
	"github.com/voluntr/volunteer-api/pkg/metrics"
)

// Channel every outbox event is published to. Consumers filter on the
// event type carried in the envelope.
const eventsChannel = "events"

type Config struct {
	BatchSize    int
	PollInterval time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	Retention    time.Duration
}

// OutboxProcessor drains pending outbox events into the message broker.
// Delivery is at-least-once: an event is marked processed only after a
// successful publish, so a crash between publish and mark replays it.
type OutboxProcessor struct {
	outboxRepo repository.OutboxRepository
	broker     messaging.Broker
	config     Config
	logger     *logger.Logger
	metrics    *metrics.Metrics
	workerID   string
}

func NewOutboxProcessor(
	outboxRepo repository.OutboxRepository,
	broker messaging.Broker,
	config Config,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}

	workerID := generateWorkerID()
	return &OutboxProcessor{
		outboxRepo: outboxRepo,
		broker:     broker,
		config:     config,
		logger:     logger.WithFields(map[string]interface{}{"worker_id": workerID}),
		metrics:    metrics,
		workerID:   workerID,
	}
}

// Start blocks until the context is cancelled, draining the outbox on
// every tick and pruning processed events once an hour.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	p.logger.Info("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor shutting down")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
		case <-cleanup.C:
			p.pruneProcessed(ctx)
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.outboxRepo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, evt := range events {
		p.processEvent(ctx, evt)
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, evt *model.OutboxEvent) {
	var publishErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			p.metrics.OutboxRetries.WithLabelValues(evt.EventType).Inc()
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempt) * p.config.RetryDelay):
			}
		}

		publishErr = p.broker.Publish(ctx, eventsChannel, map[string]interface{}{
			"type":    evt.EventType,
			"payload": evt.Payload,
		})
		if publishErr == nil {
			break
		}

		p.logger.ZL.Warn().
			Str("event_id", evt.ID.String()).
			Int("attempt", attempt+1).
			Err(publishErr).
			Msg("retrying event publish")
	}

	if publishErr != nil {
		p.metrics.OutboxEventsFailed.Inc()
		errMsg := publishErr.Error()
		if err := p.outboxRepo.UpdateStatus(ctx, evt.ID, model.OutboxStatusFailed, &errMsg); err != nil {
			p.logger.ZL.Error().Str("event_id", evt.ID.String()).Err(err).Msg("failed to mark event failed")
		}
		return
	}

	if err := p.outboxRepo.UpdateStatus(ctx, evt.ID, model.OutboxStatusProcessed, nil); err != nil {
		p.logger.ZL.Error().Str("event_id", evt.ID.String()).Err(err).Msg("failed to mark event processed")
		return
	}
	p.metrics.OutboxEventsProcessed.Inc()
}

func (p *OutboxProcessor) pruneProcessed(ctx context.Context) {
	if p.config.Retention <= 0 {
		return
	}
	deleted, err := p.outboxRepo.DeleteProcessedBefore(ctx, time.Now().Add(-p.config.Retention))
	if err != nil {
		p.logger.Error(err, "failed to prune processed events")
		return
	}
	if deleted > 0 {
		p.logger.ZL.Info().Int64("deleted", deleted).Msg("pruned processed events")
	}
}

func generateWorkerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("worker-%s-%d", hostname, time.Now().UnixNano())
}
