package analysis

import "github.com/xela07ax/playtrace/internal/domain"

// Целевой холст под тепловую карту и схему зон (600x400 минус отступы).
const (
	TargetWidth  = 580.0
	TargetHeight = 380.0
	CanvasPad    = 10.0
)

// ComputeScaling строит трансформацию сырых (x, z) в координаты холста по
// ограничивающему прямоугольнику набора точек. Три вырожденных случая:
// обе оси нулевые — одиночная точка центрируется; нулевая одна ось —
// масштаб по невырожденной, вторая центрируется; иначе равномерный масштаб
// min(width/range_x, height/range_z), чтобы сохранить пропорции.
func ComputeScaling(pts []domain.Point) *domain.ScalingTransform {
	if len(pts) == 0 {
		return nil
	}

	minX, maxX := pts[0].X, pts[0].X
	minZ, maxZ := pts[0].Z, pts[0].Z
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Z < minZ {
			minZ = p.Z
		}
		if p.Z > maxZ {
			maxZ = p.Z
		}
	}

	rangeX := maxX - minX
	rangeZ := maxZ - minZ

	scale := 1.0
	offsetX := CanvasPad
	offsetY := CanvasPad

	switch {
	case rangeX == 0 && rangeZ == 0:
		offsetX = TargetWidth/2 + CanvasPad
		offsetY = TargetHeight/2 + CanvasPad
	case rangeX == 0:
		scale = TargetHeight / rangeZ
		offsetX = TargetWidth/2 + CanvasPad
	case rangeZ == 0:
		scale = TargetWidth / rangeX
		offsetY = TargetHeight/2 + CanvasPad
	default:
		scaleX := TargetWidth / rangeX
		scaleZ := TargetHeight / rangeZ
		if scaleX < scaleZ {
			scale = scaleX
		} else {
			scale = scaleZ
		}
	}

	return &domain.ScalingTransform{
		MinX:    minX,
		MaxX:    maxX,
		MinZ:    minZ,
		MaxZ:    maxZ,
		Scale:   scale,
		OffsetX: offsetX,
		OffsetY: offsetY,
	}
}
