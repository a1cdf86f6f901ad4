package systems

import (
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/logger"
)

// Мультипликаторы для трансформации координат в 8 октантов
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// ComputeVisibleTiles возвращает клетки, видимые из pos в радиусе radius
// (рекурсивный shadowcasting). Результат всегда внутри карты.
func ComputeVisibleTiles(m *domain.Map, pos domain.Position, radius int) mapset.Set[domain.Position] {
	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": pos,
	})

	visible := mapset.New[domain.Position]()
	if radius <= 0 {
		fovLogger.Debug("FOV calculation skipped for blind observer (radius <= 0).")
		return visible
	}
	if !m.Contains(pos) {
		return visible
	}

	// Центр всегда виден
	visible.Put(pos)

	for i := 0; i < 8; i++ {
		castLight(m, pos.X, pos.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i], visible)
	}

	fovLogger.WithFields(logrus.Fields{
		"radius":        radius,
		"visible_tiles": visible.Size(),
	}).Debug("FOV calculation complete.")

	return visible
}

func castLight(m *domain.Map, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int, visible mapset.Set[domain.Position]) {
	if start < end {
		return
	}

	radiusSq := float64(radius * radius)

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			// Расчет наклонов (Slopes)
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			// Трансформация координат в глобальные
			X := cx + dx*xx + dy*xy
			Y := cy + dx*yx + dy*yy

			if m.InBounds(X, Y) && float64(dx*dx+dy*dy) <= radiusSq {
				visible.Put(domain.Position{X: X, Y: Y})
			}

			if blocked {
				// Идем вдоль стены
				if m.IsOpaque(X, Y) {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if m.IsOpaque(X, Y) && j < radius {
				// Наткнулись на стену: следующий ряд сканируется рекурсивно
				blocked = true
				castLight(m, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy, visible)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
