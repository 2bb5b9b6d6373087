package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xela07ax/playtrace/internal/analysis"
	"github.com/xela07ax/playtrace/internal/domain"
	"github.com/xela07ax/playtrace/internal/infra"
	"github.com/xela07ax/playtrace/internal/recommend"
	"go.uber.org/zap"
)

// ZoneAnalysis — полный ответ аналитики зон: кластеризация, счетчики
// событий уровня и рекомендации по дизайну.
type ZoneAnalysis struct {
	domain.ZoneResult
	EventCounts     map[string]int64 `json:"event_counts"`
	Recommendations []string         `json:"recommendations"`
}

// AnalyticsService — синхронный read-mostly конвейер: каждый запрос
// вычитывает срез событий, считает в памяти и возвращает результат.
// Промежуточное состояние кластеризации между вызовами не живет (кэш
// в Redis хранит только готовые результаты и инвалидируется версией).
type AnalyticsService struct {
	source  EventSource
	cache   *ZoneCache
	engine  *recommend.Engine
	cfg     infra.AnalyticsConfig
	metrics *infra.Metrics
	logger  *zap.Logger
}

func NewAnalyticsService(source EventSource, cache *ZoneCache, cfg infra.AnalyticsConfig, metrics *infra.Metrics, logger *zap.Logger) *AnalyticsService {
	s := &AnalyticsService{
		source:  source,
		cache:   cache,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.Named("analytics-service"),
	}
	// Движок рекомендаций атрибуцирует события через этот же сервис
	s.engine = recommend.NewEngine(s, logger)
	return s
}

// ClusterLevelZones считает зоны интереса уровня. Недостаток точек — не
// ошибка, а вырожденный успех; ошибка чтения хранилища отдается наверх
// как ошибка запроса.
func (s *AnalyticsService) ClusterLevelZones(ctx context.Context, levelID, sessionID string, eps float64, minSamples int) (*domain.ZoneResult, error) {
	if cached, ok := s.cache.Get(ctx, levelID, sessionID, eps, minSamples); ok {
		return cached, nil
	}

	pts, err := s.source.QueryPositions(ctx, levelID, sessionID)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("query_positions").Inc()
		return nil, fmt.Errorf("analytics: fetch positions: %w", err)
	}

	// Ограничение объема, если настроено; референсное поведение — без лимита
	if s.cfg.MaxPoints > 0 && len(pts) > s.cfg.MaxPoints {
		s.logger.Warn("clustering input capped",
			zap.String("level_id", levelID),
			zap.Int("points", len(pts)),
			zap.Int("cap", s.cfg.MaxPoints))
		pts = pts[:s.cfg.MaxPoints]
	}

	start := time.Now()
	res := analysis.Cluster(pts, eps, minSamples)
	s.metrics.ClusterDuration.Observe(time.Since(start).Seconds())

	result := &domain.ZoneResult{
		LevelID:     levelID,
		SessionID:   sessionID,
		Zones:       res.Zones,
		NoisePoints: res.NoisePoints,
		Parameters:  domain.ClusterParams{Eps: eps, MinSamples: minSamples},
		Scaling:     res.Scaling,
	}
	if len(pts) < minSamples {
		result.Message = "Not enough data points for clustering."
	}

	s.cache.Put(ctx, result)
	return result, nil
}

// EventCoordsByZone атрибуцирует события типа eventType к ближайшим зонам.
// Сбой хранилища глушится здесь: вызывающий получает пустую карту, а не
// ошибку.
func (s *AnalyticsService) EventCoordsByZone(ctx context.Context, levelID, sessionID, eventType string, zones []domain.Zone) map[int][]domain.Point {
	if len(zones) == 0 {
		return map[int][]domain.Point{}
	}

	samples, err := s.source.QueryEvents(ctx, levelID, eventType, sessionID)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("query_events").Inc()
		s.logger.Error("event attribution query failed",
			zap.String("level_id", levelID),
			zap.String("event_type", eventType),
			zap.Error(err))
		return map[int][]domain.Point{}
	}

	coords := make([]domain.Point, len(samples))
	for i, e := range samples {
		coords[i] = domain.Point{X: e.X, Z: e.Z}
	}
	return analysis.AssignToZones(coords, zones, s.cfg.AttributionCutoff)
}

// EventCounts возвращает счетчики событий уровня по типам.
func (s *AnalyticsService) EventCounts(ctx context.Context, levelID, sessionID string) (map[string]int64, error) {
	counts, err := s.source.CountByType(ctx, levelID, sessionID)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("count_by_type").Inc()
		return nil, fmt.Errorf("analytics: count events: %w", err)
	}
	return counts, nil
}

// Recommendations прогоняет движок правил над готовым результатом зон.
func (s *AnalyticsService) Recommendations(ctx context.Context, levelID string, zoneData *domain.ZoneResult, eventCounts map[string]int64, sessionID string) []string {
	return s.engine.Generate(ctx, levelID, zoneData, eventCounts, sessionID)
}

// AnalyzeZones — составная операция эндпоинта зон: кластеризация плюс
// счетчики плюс рекомендации. Сбой на счетчиках не роняет ответ: правила
// просто работают по пустой карте, как и при любой деградации чтения.
func (s *AnalyticsService) AnalyzeZones(ctx context.Context, levelID, sessionID string, eps float64, minSamples int) (*ZoneAnalysis, error) {
	zoneData, err := s.ClusterLevelZones(ctx, levelID, sessionID, eps, minSamples)
	if err != nil {
		return nil, err
	}

	counts, err := s.EventCounts(ctx, levelID, sessionID)
	if err != nil {
		s.logger.Error("event counts unavailable, recommendations degrade",
			zap.String("level_id", levelID), zap.Error(err))
		counts = map[string]int64{}
	}

	recs := s.Recommendations(ctx, levelID, zoneData, counts, sessionID)

	return &ZoneAnalysis{
		ZoneResult:      *zoneData,
		EventCounts:     counts,
		Recommendations: recs,
	}, nil
}

// Heatmap готовит позиционные сэмплы уровня, отмасштабированные под холст.
func (s *AnalyticsService) Heatmap(ctx context.Context, levelID, sessionID string) (*domain.HeatmapData, error) {
	pts, err := s.source.QueryPositions(ctx, levelID, sessionID)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("query_positions").Inc()
		return nil, fmt.Errorf("analytics: fetch positions: %w", err)
	}

	data := &domain.HeatmapData{
		LevelID:   levelID,
		SessionID: sessionID,
		Points:    []domain.HeatmapPoint{},
	}
	if len(pts) == 0 {
		data.Message = "No position data found for the given criteria."
		return data, nil
	}

	scaling := analysis.ComputeScaling(pts)
	data.MinX, data.MaxX = scaling.MinX, scaling.MaxX
	data.MinZ, data.MaxZ = scaling.MinZ, scaling.MaxZ
	data.Scale = scaling.Scale

	for _, p := range pts {
		x, y := scaling.Apply(p.X, p.Z)
		data.Points = append(data.Points, domain.HeatmapPoint{X: int(x), Y: int(y), Value: 1})
	}
	return data, nil
}
