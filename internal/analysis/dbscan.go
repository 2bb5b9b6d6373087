package analysis

import "github.com/xela07ax/playtrace/internal/domain"

// dbscan размечает точки по плотностной связности. Точка считается core,
// если в ее eps-окрестности (включая саму точку) лежит не меньше minSamples
// соседей; кластеры растут через связность core-точек, недостижимые точки
// получают метку шума -1.
//
// Квадратичный перебор соседей: объемы одного уровня (десятки тысяч сэмплов)
// этого не оправдывают усложнения индексом.
func dbscan(pts [][2]float64, eps float64, minSamples int) []int {
	n := len(pts)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = domain.NoiseLabel
	}

	eps2 := eps * eps
	neighbors := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			dx := pts[i][0] - pts[j][0]
			dz := pts[i][1] - pts[j][1]
			if dx*dx+dz*dz <= eps2 {
				out = append(out, j)
			}
		}
		return out
	}

	visited := make([]bool, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		seed := neighbors(i)
		if len(seed) < minSamples {
			continue // пока шум; может быть перехвачена кластером как border-точка
		}

		labels[i] = clusterID
		// Обход окрестности в ширину: очередь дописывается окрестностями core-точек
		for qi := 0; qi < len(seed); qi++ {
			j := seed[qi]
			if !visited[j] {
				visited[j] = true
				if jn := neighbors(j); len(jn) >= minSamples {
					seed = append(seed, jn...)
				}
			}
			if labels[j] == domain.NoiseLabel {
				labels[j] = clusterID
			}
		}
		clusterID++
	}

	return labels
}
