package domain

// NoiseLabel — метка DBSCAN для точек вне кластеров. Зоной никогда не является.
const NoiseLabel = -1

// Popularity — качественная оценка размера зоны относительно соседей по уровню.
type Popularity string

const (
	PopularityPopular   Popularity = "popular"
	PopularityModerate  Popularity = "moderate"
	PopularityUnpopular Popularity = "unpopular"
)

// Point — сырая пара координат (x, z) в оригинальной системе уровня.
type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Zone — плотностный кластер позиционных сэмплов. Зоны эфемерны:
// пересчитываются на каждый запрос и не персистятся.
type Zone struct {
	ClusterID  int        `json:"cluster_id"`
	Size       int        `json:"size"`
	CentroidX  float64    `json:"centroid_x"` // среднее в оригинальных координатах
	CentroidZ  float64    `json:"centroid_z"`
	Popularity Popularity `json:"popularity"`
}

// ClusterParams — параметры DBSCAN, с которыми считался результат.
type ClusterParams struct {
	Eps        float64 `json:"eps"`
	MinSamples int     `json:"min_samples"`
}

// ScalingTransform отображает сырые (x, z) на фиксированный дисплейный холст.
// Выводится только из того набора точек, что ушел в кластеризацию.
type ScalingTransform struct {
	MinX    float64 `json:"min_x"`
	MaxX    float64 `json:"max_x"`
	MinZ    float64 `json:"min_z"`
	MaxZ    float64 `json:"max_z"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Apply переводит сырую точку в координаты холста (Z уровня идет по оси Y дисплея).
func (s ScalingTransform) Apply(x, z float64) (float64, float64) {
	return s.OffsetX + (x-s.MinX)*s.Scale, s.OffsetY + (z-s.MinZ)*s.Scale
}

// ZoneResult — полный результат кластеризации уровня.
type ZoneResult struct {
	LevelID     string            `json:"levelId"`
	SessionID   string            `json:"sessionId,omitempty"`
	Zones       []Zone            `json:"zones"`
	NoisePoints int               `json:"noise_points"`
	Parameters  ClusterParams     `json:"parameters"`
	Scaling     *ScalingTransform `json:"scaling"` // nil при недостатке данных
	Message     string            `json:"message,omitempty"`
}
