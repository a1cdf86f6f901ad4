// Package pathing связывает сетку карты с A* и Дейкстрой из gruid/paths.
// Стоимости в gruid целочисленные, поэтому шаги масштабируются на costScale.
package pathing

import (
	"math"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"

	"github.com/amixtum/dd2/internal/domain"
)

const costScale = 100

// Unreachable - дистанция для клеток, до которых нет пути.
const Unreachable = -1

func toPoint(p domain.Position) gruid.Point {
	return gruid.Point{X: p.X, Y: p.Y}
}

func toPosition(p gruid.Point) domain.Position {
	return domain.Position{X: p.X, Y: p.Y}
}

func scaled(f float64) int {
	return int(math.Round(f * costScale))
}

// astarGrid адаптирует карту к интерфейсу paths.Astar.
type astarGrid struct {
	m    *domain.Map
	goal domain.Position
	buf  []gruid.Point
}

func (g *astarGrid) Neighbors(p gruid.Point) []gruid.Point {
	g.buf = g.buf[:0]
	for _, e := range g.m.AvailableExits(toPosition(p), g.goal) {
		g.buf = append(g.buf, toPoint(e.Pos))
	}
	return g.buf
}

func (g *astarGrid) Cost(p, q gruid.Point) int {
	if p.X != q.X && p.Y != q.Y {
		return scaled(domain.DiagonalCost)
	}
	return scaled(domain.CardinalCost)
}

// Estimation - евклидово расстояние. С диагональю 1.45 оно не переоценивает путь.
func (g *astarGrid) Estimation(p, q gruid.Point) int {
	return int(domain.PathDistance(toPosition(p), toPosition(q)) * costScale)
}

// Finder переиспользует буферы gruid между запросами одного уровня.
type Finder struct {
	m  *domain.Map
	pr *paths.PathRange
}

// NewFinder создает поисковик путей для карты.
func NewFinder(m *domain.Map) *Finder {
	return &Finder{
		m:  m,
		pr: paths.NewPathRange(gruid.NewRange(0, 0, m.Width, m.Height)),
	}
}

// AStar ищет путь по незаблокированным клеткам. Путь включает обе конечные
// точки; nil, если пути нет. Цель может быть занята (например, игроком).
func (f *Finder) AStar(from, to domain.Position) []domain.Position {
	if !f.m.Contains(from) || !f.m.Contains(to) {
		return nil
	}
	if from == to {
		return []domain.Position{from}
	}
	g := &astarGrid{m: f.m, goal: to}
	pts := f.pr.AstarPath(g, toPoint(from), toPoint(to))
	if len(pts) == 0 {
		return nil
	}
	out := make([]domain.Position, len(pts))
	for i, p := range pts {
		out[i] = toPosition(p)
	}
	return out
}

// walkGrid - граф для Дейкстры при генерации: проходимы все не-стены,
// сущности игнорируются.
type walkGrid struct {
	m   *domain.Map
	buf []gruid.Point
}

func (g *walkGrid) Neighbors(p gruid.Point) []gruid.Point {
	g.buf = g.buf[:0]
	for _, d := range [8][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		q := gruid.Point{X: p.X + d[0], Y: p.Y + d[1]}
		if g.m.TileAt(toPosition(q)).IsWalkable() {
			g.buf = append(g.buf, q)
		}
	}
	return g.buf
}

func (g *walkGrid) Cost(p, q gruid.Point) int {
	if p.X != q.X && p.Y != q.Y {
		return scaled(domain.DiagonalCost)
	}
	return scaled(domain.CardinalCost)
}

// DistanceMap - результат Дейкстры: стоимость пути от источника по индексу клетки.
type DistanceMap struct {
	Width int
	Costs []float64
}

// At возвращает дистанцию до клетки или Unreachable.
func (d *DistanceMap) At(p domain.Position) float64 {
	if p.X < 0 || p.Y < 0 || p.X >= d.Width || p.Y*d.Width+p.X >= len(d.Costs) {
		return Unreachable
	}
	return d.Costs[p.Y*d.Width+p.X]
}

// Reachable - до клетки есть путь.
func (d *DistanceMap) Reachable(p domain.Position) bool {
	return d.At(p) >= 0
}

// Count - сколько клеток достижимо.
func (d *DistanceMap) Count() int {
	n := 0
	for _, c := range d.Costs {
		if c >= 0 {
			n++
		}
	}
	return n
}

// Dijkstra строит карту расстояний от start по проходимым тайлам.
func (f *Finder) Dijkstra(start domain.Position) *DistanceMap {
	dm := &DistanceMap{Width: f.m.Width, Costs: make([]float64, f.m.Width*f.m.Height)}
	for i := range dm.Costs {
		dm.Costs[i] = Unreachable
	}
	if !f.m.TileAt(start).IsWalkable() {
		return dm
	}

	maxCost := f.m.Width * f.m.Height * scaled(domain.DiagonalCost)
	nodes := f.pr.DijkstraMap(&walkGrid{m: f.m}, []gruid.Point{toPoint(start)}, maxCost)
	for _, n := range nodes {
		p := toPosition(n.P)
		if !f.m.Contains(p) {
			continue
		}
		dm.Costs[f.m.Index(p.X, p.Y)] = float64(n.Cost) / costScale
	}
	dm.Costs[f.m.Index(start.X, start.Y)] = 0
	return dm
}

// Farthest возвращает проходимую клетку с максимальной дистанцией.
// При равенстве побеждает клетка с меньшим индексом.
func (d *DistanceMap) Farthest(m *domain.Map) (domain.Position, bool) {
	best := -1
	bestCost := -1.0
	for idx, c := range d.Costs {
		if c < 0 || !m.Tiles[idx].IsWalkable() {
			continue
		}
		if c > bestCost {
			best = idx
			bestCost = c
		}
	}
	if best < 0 {
		return domain.Position{}, false
	}
	return m.Coord(best), true
}
