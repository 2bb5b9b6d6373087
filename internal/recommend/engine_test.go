package recommend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/playtrace/internal/domain"
)

// fakeAttributor отдает заранее заданную раскладку смертей по зонам.
type fakeAttributor struct {
	byZone map[int][]domain.Point
	calls  int
}

func (f *fakeAttributor) EventCoordsByZone(_ context.Context, _, _, _ string, _ []domain.Zone) map[int][]domain.Point {
	f.calls++
	if f.byZone == nil {
		return map[int][]domain.Point{}
	}
	return f.byZone
}

func points(n int) []domain.Point {
	out := make([]domain.Point, n)
	return out
}

func zoneResult(zones ...domain.Zone) *domain.ZoneResult {
	return &domain.ZoneResult{Zones: zones}
}

func TestGenerate_PlaceholderWhenNoRuleFires(t *testing.T) {
	e := NewEngine(&fakeAttributor{}, zap.NewNop())

	recs := e.Generate(context.Background(), "level-1", zoneResult(), map[string]int64{}, "")

	require.Len(t, recs, 1)
	assert.Equal(t, "No automatic level design recommendations at this time.", recs[0])
}

func TestGenerate_UnpopularZones(t *testing.T) {
	e := NewEngine(&fakeAttributor{}, zap.NewNop())
	zd := zoneResult(
		domain.Zone{ClusterID: 0, Size: 50, Popularity: domain.PopularityPopular},
		domain.Zone{ClusterID: 1, Size: 2, Popularity: domain.PopularityUnpopular},
		domain.Zone{ClusterID: 2, Size: 3, Popularity: domain.PopularityUnpopular},
	)

	recs := e.Generate(context.Background(), "level-1", zd, map[string]int64{}, "")

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Unpopular zones detected: ID(s) 1, 2.")
}

func TestGenerate_HighDeathCountStrictlyAboveThreshold(t *testing.T) {
	e := NewEngine(&fakeAttributor{}, zap.NewNop())

	// Ровно на пороге правило молчит
	recs := e.Generate(context.Background(), "level-1", zoneResult(), map[string]int64{EventTypeDeath: 20}, "")
	require.Len(t, recs, 1)
	assert.NotContains(t, recs[0], "Total death count")

	recs = e.Generate(context.Background(), "level-1", zoneResult(), map[string]int64{EventTypeDeath: 21}, "")
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Total death count on the level (21) is high.")
}

func TestGenerate_ZoneOfDeath(t *testing.T) {
	fa := &fakeAttributor{byZone: map[int][]domain.Point{
		0: points(1), 1: points(1), 2: points(1), 3: points(1), 4: points(20),
	}}
	e := NewEngine(fa, zap.NewNop())
	zd := zoneResult(
		domain.Zone{ClusterID: 0, Size: 10, Popularity: domain.PopularityModerate},
		domain.Zone{ClusterID: 1, Size: 10, Popularity: domain.PopularityModerate},
		domain.Zone{ClusterID: 2, Size: 10, Popularity: domain.PopularityModerate},
		domain.Zone{ClusterID: 3, Size: 10, Popularity: domain.PopularityModerate},
		domain.Zone{ClusterID: 4, Size: 10, CentroidX: 1.25, CentroidZ: -2.5, Popularity: domain.PopularityModerate},
	)

	recs := e.Generate(context.Background(), "level-1", zd, map[string]int64{EventTypeDeath: 24}, "")

	// Срабатывают правила 2 (24 > 20) и 3 (зона 4: 20 > 2*avg 4.8)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[1], "Zones with abnormally high death rates detected:")
	assert.Contains(t, recs[1], "Zone 4 (20 deaths (1.2, -2.5))")
	assert.Equal(t, 1, fa.calls)
}

func TestGenerate_ZoneOfDeathSortedByDeathsDesc(t *testing.T) {
	fa := &fakeAttributor{byZone: map[int][]domain.Point{
		0: points(6), 1: points(40),
	}}
	e := NewEngine(fa, zap.NewNop())
	zd := zoneResult(
		domain.Zone{ClusterID: 0, Popularity: domain.PopularityModerate},
		domain.Zone{ClusterID: 1, Popularity: domain.PopularityModerate},
	)

	recs := e.Generate(context.Background(), "level-1", zd, map[string]int64{EventTypeDeath: 46}, "")

	require.Len(t, recs, 2)
	// Обе зоны проблемные (доля > 0.1), крупная — первой
	idx40 := indexOf(t, recs[1], "Zone 1 (40 deaths")
	idx6 := indexOf(t, recs[1], "Zone 0 (6 deaths")
	assert.Less(t, idx40, idx6)
}

func TestGenerate_ZoneOfDeathIgnoresNoiseKey(t *testing.T) {
	fa := &fakeAttributor{byZone: map[int][]domain.Point{
		domain.NoiseLabel: points(100),
		0:                 points(1),
	}}
	e := NewEngine(fa, zap.NewNop())
	zd := zoneResult(domain.Zone{ClusterID: 0, Popularity: domain.PopularityModerate})

	recs := e.Generate(context.Background(), "level-1", zd, map[string]int64{EventTypeDeath: 101}, "")

	// Смерти в шуме не образуют проблемную зону; остается только правило 2
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Total death count")
}

func TestGenerate_ZoneOfDeathBelowAbsoluteFloor(t *testing.T) {
	fa := &fakeAttributor{byZone: map[int][]domain.Point{
		0: points(4), // выше среднего, но ниже абсолютного минимума 5
		1: points(0),
	}}
	e := NewEngine(fa, zap.NewNop())
	zd := zoneResult(
		domain.Zone{ClusterID: 0, Popularity: domain.PopularityModerate},
		domain.Zone{ClusterID: 1, Popularity: domain.PopularityModerate},
	)

	recs := e.Generate(context.Background(), "level-1", zd, map[string]int64{EventTypeDeath: 4}, "")

	require.Len(t, recs, 1)
	assert.Equal(t, "No automatic level design recommendations at this time.", recs[0])
}

func TestGenerate_NoDeathsSkipsAttribution(t *testing.T) {
	fa := &fakeAttributor{}
	e := NewEngine(fa, zap.NewNop())
	zd := zoneResult(domain.Zone{ClusterID: 0, Popularity: domain.PopularityModerate})

	e.Generate(context.Background(), "level-1", zd, map[string]int64{"jump": 10}, "")

	assert.Zero(t, fa.calls)
}

func TestGenerate_NilZoneData(t *testing.T) {
	e := NewEngine(&fakeAttributor{}, zap.NewNop())

	recs := e.Generate(context.Background(), "level-1", nil, map[string]int64{EventTypeDeath: 30}, "")

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Total death count")
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "%q not found in %q", sub, s)
	return idx
}
