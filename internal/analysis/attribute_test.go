package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/playtrace/internal/domain"
)

func TestAssignToZones_NearestCentroid(t *testing.T) {
	zones := []domain.Zone{
		{ClusterID: 0, CentroidX: 0, CentroidZ: 0},
		{ClusterID: 1, CentroidX: 10, CentroidZ: 10},
	}
	coords := []domain.Point{
		{X: 1, Z: 1},
		{X: 9, Z: 9},
		{X: 2, Z: 0},
	}

	byZone := AssignToZones(coords, zones, 0)

	require.Len(t, byZone, 3) // обе зоны плюс ключ шума
	assert.Len(t, byZone[0], 2)
	assert.Len(t, byZone[1], 1)
	assert.Empty(t, byZone[domain.NoiseLabel])
	assert.Equal(t, domain.Point{X: 9, Z: 9}, byZone[1][0])
}

func TestAssignToZones_NoCutoffByDefault(t *testing.T) {
	zones := []domain.Zone{{ClusterID: 0, CentroidX: 0, CentroidZ: 0}}
	coords := []domain.Point{{X: 1000, Z: 1000}}

	byZone := AssignToZones(coords, zones, 0)

	// Порога нет: далекая точка все равно уходит в ближайшую зону
	assert.Len(t, byZone[0], 1)
	assert.Empty(t, byZone[domain.NoiseLabel])
}

func TestAssignToZones_CutoffSendsFarPointsToNoise(t *testing.T) {
	zones := []domain.Zone{{ClusterID: 0, CentroidX: 0, CentroidZ: 0}}
	coords := []domain.Point{
		{X: 3, Z: 4},   // дистанция 5 — внутри порога
		{X: 30, Z: 40}, // дистанция 50 — за порогом
	}

	byZone := AssignToZones(coords, zones, 10)

	assert.Len(t, byZone[0], 1)
	assert.Len(t, byZone[domain.NoiseLabel], 1)
	assert.Equal(t, domain.Point{X: 30, Z: 40}, byZone[domain.NoiseLabel][0])
}

func TestAssignToZones_TieGoesToFirstZone(t *testing.T) {
	zones := []domain.Zone{
		{ClusterID: 3, CentroidX: -1, CentroidZ: 0},
		{ClusterID: 7, CentroidX: 1, CentroidZ: 0},
	}

	byZone := AssignToZones([]domain.Point{{X: 0, Z: 0}}, zones, 0)

	assert.Len(t, byZone[3], 1)
	assert.Empty(t, byZone[7])
}

func TestAssignToZones_OnlyNoiseZones(t *testing.T) {
	zones := []domain.Zone{{ClusterID: domain.NoiseLabel, Size: 4}}
	coords := []domain.Point{{X: 1, Z: 2}, {X: 3, Z: 4}}

	byZone := AssignToZones(coords, zones, 0)

	require.Len(t, byZone, 1)
	assert.Equal(t, coords, byZone[domain.NoiseLabel])
}

func TestAssignToZones_EmptyInputs(t *testing.T) {
	zones := []domain.Zone{{ClusterID: 0}}

	assert.Empty(t, AssignToZones(nil, zones, 0))
	assert.Empty(t, AssignToZones([]domain.Point{{X: 1, Z: 1}}, nil, 0))
}

func TestAssignToZones_PreseedsEmptyZones(t *testing.T) {
	zones := []domain.Zone{
		{ClusterID: 0, CentroidX: 0, CentroidZ: 0},
		{ClusterID: 1, CentroidX: 100, CentroidZ: 100},
	}

	byZone := AssignToZones([]domain.Point{{X: 1, Z: 1}}, zones, 0)

	// Зона без событий присутствует в карте с пустым срезом
	v, ok := byZone[1]
	require.True(t, ok)
	assert.Empty(t, v)
	assert.NotNil(t, v)
}
