package service

import (
	"context"
	"fmt"

	"github.com/xela07ax/playtrace/internal/domain"
	"github.com/xela07ax/playtrace/internal/infra"
	"github.com/xela07ax/playtrace/internal/telemetry"
	"go.uber.org/zap"
)

// EventStore описывает путь записи хранилища событий.
type EventStore interface {
	InsertBatch(ctx context.Context, events []domain.CanonicalEvent) error
}

// IngestResult — сколько записей батча прошло нормализацию и закоммитилось.
type IngestResult struct {
	Stored     int
	Candidates int
}

// IngestService принимает клиентские батчи: нормализация с отбрасыванием
// битых записей, затем атомарный коммит всего, что осталось.
type IngestService struct {
	normalizer *telemetry.Normalizer
	store      EventStore
	cache      *ZoneCache
	metrics    *infra.Metrics
	logger     *zap.Logger
}

func NewIngestService(store EventStore, cache *ZoneCache, metrics *infra.Metrics, logger *zap.Logger) *IngestService {
	return &IngestService{
		normalizer: telemetry.NewNormalizer(logger),
		store:      store,
		cache:      cache,
		metrics:    metrics,
		logger:     logger.Named("ingest-service"),
	}
}

// Ingest обрабатывает один батч. Валидационные потери не фатальны,
// ошибка персистентности фатальна для всего батча: транзакция откатывается
// и наружу уходит ошибка сервера.
func (s *IngestService) Ingest(ctx context.Context, batch domain.EventBatch) (IngestResult, error) {
	s.metrics.BatchesReceived.Inc()

	events, candidates := s.normalizer.Normalize(batch)
	s.metrics.BatchSize.Observe(float64(candidates))
	s.metrics.EventsDropped.Add(float64(candidates - len(events)))

	result := IngestResult{Stored: len(events), Candidates: candidates}
	if len(events) == 0 {
		s.logger.Info("no valid events in batch",
			zap.String("session_id", batch.SessionID),
			zap.Int("candidates", candidates))
		return result, nil
	}

	if err := s.store.InsertBatch(ctx, events); err != nil {
		s.metrics.StoreErrors.WithLabelValues("insert_batch").Inc()
		s.logger.Error("batch persistence failed",
			zap.String("session_id", batch.SessionID),
			zap.Int("events", len(events)),
			zap.Error(err))
		return IngestResult{Candidates: candidates}, fmt.Errorf("ingest: store batch: %w", err)
	}

	for _, e := range events {
		s.metrics.EventsStored.WithLabelValues(e.EventType).Inc()
	}
	s.cache.Invalidate(ctx, batch.LevelID)

	s.logger.Info("batch processed",
		zap.String("session_id", batch.SessionID),
		zap.String("level_id", batch.LevelID),
		zap.Int("stored", len(events)),
		zap.Int("candidates", candidates))
	return result, nil
}
