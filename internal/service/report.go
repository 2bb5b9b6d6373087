package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xela07ax/playtrace/internal/domain"
	"github.com/xela07ax/playtrace/internal/infra"
	"go.uber.org/zap"
)

// ErrLevelNotFound — уровень без единого события и зоны.
var ErrLevelNotFound = errors.New("level not found or has no event data")

// ReportStore — запросы хранилища для отчетов и административных операций.
type ReportStore interface {
	ListLevels(ctx context.Context) ([]string, error)
	ListSessions(ctx context.Context, levelID string) ([]string, error)
	SessionSummaries(ctx context.Context, levelID string, limit int) ([]domain.SessionSummary, error)
	CountDistinctSessions(ctx context.Context, levelID string) (int64, error)
	TimeRange(ctx context.Context, levelID string) (*time.Time, *time.Time, error)
	CountByType(ctx context.Context, levelID, sessionID string) (map[string]int64, error)
	DeleteEvent(ctx context.Context, id string) (bool, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
	DeleteByLevel(ctx context.Context, levelID string) (int64, error)
}

// ReportService собирает отчеты по уровням и обслуживает административные
// удаления. Базовые метрики отчета считаются best-effort: упавший запрос
// логируется, отчет продолжает собираться с тем, что есть.
type ReportService struct {
	store     ReportStore
	analytics *AnalyticsService
	cache     *ZoneCache
	cfg       infra.AnalyticsConfig
	logger    *zap.Logger
}

func NewReportService(store ReportStore, analytics *AnalyticsService, cache *ZoneCache, cfg infra.AnalyticsConfig, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:     store,
		analytics: analytics,
		cache:     cache,
		cfg:       cfg,
		logger:    logger.Named("report-service"),
	}
}

// Levels — список уровней, по которым есть события.
func (s *ReportService) Levels(ctx context.Context) ([]string, error) {
	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: list levels: %w", err)
	}
	if levels == nil {
		levels = []string{}
	}
	return levels, nil
}

// Sessions — сводки по сессиям, свежие первыми.
func (s *ReportService) Sessions(ctx context.Context, levelID string, limit int) ([]domain.SessionSummary, error) {
	summaries, err := s.store.SessionSummaries(ctx, levelID, limit)
	if err != nil {
		return nil, fmt.Errorf("report: session summaries: %w", err)
	}
	if summaries == nil {
		summaries = []domain.SessionSummary{}
	}
	return summaries, nil
}

// LevelReport — детальный отчет по уровню: метрики, зоны, рекомендации.
func (s *ReportService) LevelReport(ctx context.Context, levelID string) (*domain.LevelReport, error) {
	report := &domain.LevelReport{
		LevelID:           levelID,
		EventCounts:       map[string]int64{},
		AvailableSessions: []string{},
	}

	uniqueSessions, err := s.store.CountDistinctSessions(ctx, levelID)
	if err != nil {
		s.logger.Error("unique session count failed", zap.String("level_id", levelID), zap.Error(err))
	}
	report.UniqueSessions = uniqueSessions

	if counts, err := s.store.CountByType(ctx, levelID, ""); err != nil {
		s.logger.Error("event counts failed", zap.String("level_id", levelID), zap.Error(err))
	} else {
		report.EventCounts = counts
	}

	first, last, err := s.store.TimeRange(ctx, levelID)
	if err != nil {
		s.logger.Error("time range failed", zap.String("level_id", levelID), zap.Error(err))
	} else if first != nil && last != nil {
		report.FirstEvent = first
		report.LastEvent = last
		report.DurationSeconds = last.Sub(*first).Seconds()
	}

	if sessions, err := s.store.ListSessions(ctx, levelID); err != nil {
		s.logger.Error("session list failed", zap.String("level_id", levelID), zap.Error(err))
	} else if sessions != nil {
		report.AvailableSessions = sessions
	}

	zoneData, err := s.analytics.ClusterLevelZones(ctx, levelID, "", s.cfg.DefaultEps, s.cfg.DefaultMinSamples)
	if err != nil {
		s.logger.Error("clustering failed for report", zap.String("level_id", levelID), zap.Error(err))
	} else {
		report.ZoneData = zoneData
	}

	report.Recommendations = s.analytics.Recommendations(ctx, levelID, report.ZoneData, report.EventCounts, "")

	// Базовая проверка существования уровня: ни сессий, ни зон, ни шума
	if report.UniqueSessions == 0 &&
		(report.ZoneData == nil || (len(report.ZoneData.Zones) == 0 && report.ZoneData.NoisePoints == 0)) {
		return nil, ErrLevelNotFound
	}
	return report, nil
}

// DeleteEvent удаляет одно событие. Кэш не трогаем: уровень события уже
// неизвестен, staleness ограничена TTL кэша.
func (s *ReportService) DeleteEvent(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.DeleteEvent(ctx, id)
	if err != nil {
		return false, fmt.Errorf("report: delete event: %w", err)
	}
	return ok, nil
}

// DeleteSessionEvents — массовое удаление событий сессии.
func (s *ReportService) DeleteSessionEvents(ctx context.Context, sessionID string) (int64, error) {
	deleted, err := s.store.DeleteBySession(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("report: delete session events: %w", err)
	}
	s.logger.Info("session events deleted",
		zap.String("session_id", sessionID), zap.Int64("count", deleted))
	return deleted, nil
}

// DeleteLevelEvents — массовое удаление событий уровня со сбросом кэша.
func (s *ReportService) DeleteLevelEvents(ctx context.Context, levelID string) (int64, error) {
	deleted, err := s.store.DeleteByLevel(ctx, levelID)
	if err != nil {
		return 0, fmt.Errorf("report: delete level events: %w", err)
	}
	s.cache.Invalidate(ctx, levelID)
	s.logger.Info("level events deleted",
		zap.String("level_id", levelID), zap.Int64("count", deleted))
	return deleted, nil
}
