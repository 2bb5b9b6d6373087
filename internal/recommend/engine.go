package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xela07ax/playtrace/internal/domain"
	"go.uber.org/zap"
)

// EventTypeDeath — тип события, на котором строятся правила 2 и 3.
const EventTypeDeath = "death"

// Продуктовые пороги правил. Абсолютный минимум смертей в зоне отсекает
// срабатывания на очень маленьких уровнях.
const (
	HighDeathCountThreshold    = 20  // правило 2: общий счетчик смертей на уровне
	ZoneDeathThresholdAbs      = 5   // правило 3: минимум смертей в зоне
	ZoneDeathThresholdRelAvg   = 2.0 // правило 3: во сколько раз выше среднего по зонам
	ZoneDeathThresholdRelTotal = 0.1 // правило 3: доля от всех смертей уровня
)

// ZoneAttributor описывает возможность разложить координаты событий типа
// eventType по ближайшим зонам. Реализация сама глушит ошибки хранилища и
// в худшем случае возвращает пустую карту.
type ZoneAttributor interface {
	EventCoordsByZone(ctx context.Context, levelID, sessionID, eventType string, zones []domain.Zone) map[int][]domain.Point
}

// Engine — движок дизайн-рекомендаций. Правила проверяются в фиксированном
// порядке, каждое только дописывает строку в результат; общее состояние
// анализа не мутируется.
type Engine struct {
	attributor ZoneAttributor
	logger     *zap.Logger
}

func NewEngine(attributor ZoneAttributor, logger *zap.Logger) *Engine {
	return &Engine{
		attributor: attributor,
		logger:     logger.Named("recommend"),
	}
}

// Generate строит список рекомендаций по результату кластеризации и счетчикам
// событий уровня. Всегда возвращает хотя бы одну запись: заглушку, если ни
// одно правило не сработало.
func (e *Engine) Generate(ctx context.Context, levelID string, zoneData *domain.ZoneResult, eventCounts map[string]int64, sessionID string) []string {
	var recs []string

	var zones []domain.Zone
	if zoneData != nil {
		zones = zoneData.Zones
	}

	// --- Правило 1: непопулярные зоны ---
	var unpopularIDs []string
	for _, z := range zones {
		if z.Popularity == domain.PopularityUnpopular && z.ClusterID != domain.NoiseLabel {
			unpopularIDs = append(unpopularIDs, fmt.Sprintf("%d", z.ClusterID))
		}
	}
	if len(unpopularIDs) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Unpopular zones detected: ID(s) %s. Consider adding points of interest, rewards or better navigation towards these zones.",
			strings.Join(unpopularIDs, ", ")))
	}

	// --- Правило 2: много смертей на уровне в целом ---
	totalDeaths := eventCounts[EventTypeDeath]
	if totalDeaths > HighDeathCountThreshold {
		recs = append(recs, fmt.Sprintf(
			"Total death count on the level (%d) is high. Consider revisiting the overall difficulty or adding checkpoints/assistance.",
			totalDeaths))
	}

	// --- Правило 3: зона смерти ---
	if len(zones) > 0 && totalDeaths > 0 {
		if msg, ok := e.zoneOfDeath(ctx, levelID, sessionID, zones, totalDeaths); ok {
			recs = append(recs, msg)
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "No automatic level design recommendations at this time.")
	}

	e.logger.Info("recommendations generated",
		zap.String("level_id", levelID),
		zap.Int("count", len(recs)))
	return recs
}

type problemZone struct {
	id     int
	deaths int
	cx, cz float64
}

// zoneOfDeath ищет зоны со статистически непропорциональным числом смертей.
// Среднее считается как totalDeaths на число зон в карте атрибуции — так
// заложено в продуктовой логике, зоны с нулем смертей тоже в знаменателе.
func (e *Engine) zoneOfDeath(ctx context.Context, levelID, sessionID string, zones []domain.Zone, totalDeaths int64) (string, bool) {
	deathsByZone := e.attributor.EventCoordsByZone(ctx, levelID, sessionID, EventTypeDeath, zones)

	deathCounts := make(map[int]int, len(deathsByZone))
	for zoneID, coords := range deathsByZone {
		if zoneID == domain.NoiseLabel {
			continue // шум не участвует в анализе зон смерти
		}
		deathCounts[zoneID] = len(coords)
	}
	if len(deathCounts) == 0 {
		return "", false
	}

	avgDeathsPerZone := float64(totalDeaths) / float64(len(deathCounts))

	var problems []problemZone
	for _, z := range zones {
		if z.ClusterID == domain.NoiseLabel {
			continue
		}
		deaths := deathCounts[z.ClusterID]
		if deaths < ZoneDeathThresholdAbs {
			continue
		}

		relAvg := avgDeathsPerZone > 0 && float64(deaths) > avgDeathsPerZone*ZoneDeathThresholdRelAvg
		relTotal := totalDeaths > 0 && float64(deaths)/float64(totalDeaths) > ZoneDeathThresholdRelTotal
		if relAvg || relTotal || avgDeathsPerZone == 0 {
			problems = append(problems, problemZone{
				id:     z.ClusterID,
				deaths: deaths,
				cx:     z.CentroidX,
				cz:     z.CentroidZ,
			})
		}
	}
	if len(problems) == 0 {
		return "", false
	}

	sort.SliceStable(problems, func(i, j int) bool { return problems[i].deaths > problems[j].deaths })

	details := make([]string, 0, len(problems))
	for _, p := range problems {
		details = append(details, fmt.Sprintf("Zone %d (%d deaths (%.1f, %.1f))", p.id, p.deaths, p.cx, p.cz))
	}
	msg := "Zones with abnormally high death rates detected: " +
		strings.Join(details, "; ") +
		". Consider revisiting difficulty or adding hints in these zones."
	return msg, true
}
