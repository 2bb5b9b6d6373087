package analysis

import (
	"sort"

	"github.com/xela07ax/playtrace/internal/domain"
)

// Дефолтные параметры DBSCAN; подобраны под стандартизированное пространство.
const (
	DefaultEps        = 0.3
	DefaultMinSamples = 10
)

// Result — чистый результат кластеризации без привязки к уровню/сессии.
type Result struct {
	Zones       []domain.Zone
	NoisePoints int
	Scaling     *domain.ScalingTransform
}

// Cluster запускает DBSCAN над позиционными сэмплами уровня и собирает зоны.
// Меньше minSamples точек — не ошибка: ноль зон, все точки в шуме, без
// трансформации масштабирования.
func Cluster(pts []domain.Point, eps float64, minSamples int) Result {
	if len(pts) < minSamples {
		return Result{
			Zones:       []domain.Zone{},
			NoisePoints: len(pts),
		}
	}

	// Трансформация считается по исходному набору до стандартизации
	scaling := ComputeScaling(pts)

	raw := make([][2]float64, len(pts))
	for i, p := range pts {
		raw[i] = [2]float64{p.X, p.Z}
	}
	labels := dbscan(standardize(raw), eps, minSamples)

	noise := 0
	members := map[int][]domain.Point{}
	for i, label := range labels {
		if label == domain.NoiseLabel {
			noise++
			continue
		}
		members[label] = append(members[label], pts[i])
	}

	zones := make([]domain.Zone, 0, len(members))
	sizes := make([]float64, 0, len(members))
	for id, pts := range members {
		var cx, cz float64
		for _, p := range pts {
			cx += p.X
			cz += p.Z
		}
		n := float64(len(pts))
		zones = append(zones, domain.Zone{
			ClusterID: id,
			Size:      len(pts),
			CentroidX: cx / n,
			CentroidZ: cz / n,
		})
		sizes = append(sizes, n)
	}

	classifyPopularity(zones, sizes)

	// Стабильный порядок: по размеру вниз, при равенстве — по id кластера
	sort.Slice(zones, func(i, j int) bool { return zones[i].ClusterID < zones[j].ClusterID })
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Size > zones[j].Size })

	return Result{Zones: zones, NoisePoints: noise, Scaling: scaling}
}

// classifyPopularity раскладывает зоны по корзинам относительно 80-го и
// 20-го перцентилей размеров. Асимметрия ветки popular (требование
// ненулевого порога) сохранена из продуктовой логики как есть.
func classifyPopularity(zones []domain.Zone, sizes []float64) {
	var thresholdPopular, thresholdUnpopular float64
	if len(sizes) > 0 {
		thresholdPopular = percentile(sizes, 80)   // верхние 20% — popular
		thresholdUnpopular = percentile(sizes, 20) // нижние 20% — unpopular
	}

	for i := range zones {
		size := float64(zones[i].Size)
		switch {
		case size >= thresholdPopular && thresholdPopular > 0:
			zones[i].Popularity = domain.PopularityPopular
		case size <= thresholdUnpopular:
			zones[i].Popularity = domain.PopularityUnpopular
		default:
			zones[i].Popularity = domain.PopularityModerate
		}
	}
}
