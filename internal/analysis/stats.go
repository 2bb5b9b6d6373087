package analysis

import (
	"math"
	"sort"
)

// standardize приводит каждую ось к нулевому среднему и единичной дисперсии.
// Кластеризация работает в стандартизированном пространстве, наружу всегда
// отдаются оригинальные координаты.
func standardize(pts [][2]float64) [][2]float64 {
	n := float64(len(pts))
	if n == 0 {
		return nil
	}

	var meanX, meanZ float64
	for _, p := range pts {
		meanX += p[0]
		meanZ += p[1]
	}
	meanX /= n
	meanZ /= n

	var varX, varZ float64
	for _, p := range pts {
		varX += (p[0] - meanX) * (p[0] - meanX)
		varZ += (p[1] - meanZ) * (p[1] - meanZ)
	}
	stdX := math.Sqrt(varX / n)
	stdZ := math.Sqrt(varZ / n)

	// Вырожденная ось (все значения равны) не масштабируется
	if stdX == 0 {
		stdX = 1
	}
	if stdZ == 0 {
		stdZ = 1
	}

	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i][0] = (p[0] - meanX) / stdX
		out[i][1] = (p[1] - meanZ) / stdZ
	}
	return out
}

// percentile считает q-й перцентиль с линейной интерполяцией между
// соседними рангами (метод numpy по умолчанию). От формулы зависит
// классификация популярности зон, менять ее нельзя.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
