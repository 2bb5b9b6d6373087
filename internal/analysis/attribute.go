package analysis

import (
	"math"

	"github.com/xela07ax/playtrace/internal/domain"
)

// AssignToZones раскладывает координаты событий по ближайшим центроидам зон.
// По умолчанию (cutoff <= 0) порога максимальной дистанции нет: каждое
// событие всегда приписывается какой-то зоне, даже очень далекое — это
// осознанная грубая эвристика, а не дефект. Положительный cutoff отправляет
// события дальше порога от всех центроидов в шум (-1). Равные дистанции
// разрешаются в пользу первой зоны в порядке списка.
//
// Пустой список зон дает пустую карту; если в списке нет ни одной реальной
// зоны (только шум), все координаты уходят под ключ -1.
func AssignToZones(coords []domain.Point, zones []domain.Zone, cutoff float64) map[int][]domain.Point {
	if len(zones) == 0 || len(coords) == 0 {
		return map[int][]domain.Point{}
	}

	var real []domain.Zone
	for _, z := range zones {
		if z.ClusterID != domain.NoiseLabel {
			real = append(real, z)
		}
	}
	if len(real) == 0 {
		return map[int][]domain.Point{domain.NoiseLabel: coords}
	}

	byZone := make(map[int][]domain.Point, len(real)+1)
	for _, z := range real {
		byZone[z.ClusterID] = []domain.Point{}
	}
	byZone[domain.NoiseLabel] = []domain.Point{}

	for _, c := range coords {
		best := 0
		var bestDist float64
		for i, z := range real {
			dx := z.CentroidX - c.X
			dz := z.CentroidZ - c.Z
			d := dx*dx + dz*dz
			if i == 0 || d < bestDist {
				best = i
				bestDist = d
			}
		}

		id := real[best].ClusterID
		if cutoff > 0 && math.Sqrt(bestDist) > cutoff {
			id = domain.NoiseLabel
		}
		byZone[id] = append(byZone[id], c)
	}

	return byZone
}
