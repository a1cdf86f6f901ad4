package dungeon

import (
	"errors"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/dice"
)

// ErrDegenerateLevel - построитель не смог получить играбельный уровень
// (слишком мало комнат или пола). Generate повторяет попытку с новым сидом.
var ErrDegenerateLevel = errors.New("degenerate level")

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) X2() int { return r.X + r.W }
func (r Rect) Y2() int { return r.Y + r.H }

func (r Rect) Center() domain.Position {
	return domain.Position{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Intersects считает касание краями пересечением, поэтому между
// комнатами всегда остается стена.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X2() && r.X2() >= other.X &&
		r.Y <= other.Y2() && r.Y2() >= other.Y
}

// Interior - клетки, которые становятся полом при вырезании комнаты.
func (r Rect) Interior() []domain.Position {
	var out []domain.Position
	for y := r.Y + 1; y < r.Y2(); y++ {
		for x := r.X + 1; x < r.X2(); x++ {
			out = append(out, domain.Position{X: x, Y: y})
		}
	}
	return out
}

// Snapshot - копия карты на одном шаге построения.
type Snapshot struct {
	Step  int
	Label string
	Map   *domain.Map
}

// Result - все, что построитель отдает наружу. Карта уже очищена от
// недостижимого пола и содержит ровно одну лестницу вниз.
type Result struct {
	Builder      string
	Map          *domain.Map
	Start        domain.Position
	Stairs       domain.Position
	Rooms        []Rect
	SpawnRegions [][]domain.Position
	History      []Snapshot
}

// Builder - общий контракт всех генераторов карт.
type Builder interface {
	Name() string
	Build(rng *dice.RNG, depth int) (*Result, error)
}

// Options - параметры генерации, общие для всех построителей.
type Options struct {
	Width            int
	Height           int
	MaxRooms         int
	MinRoomSize      int
	MaxRoomSize      int
	History          bool
	MaxAttempts      int
	StairsAtLastRoom bool
	CaveIterations   int
	MinFloorFraction float64
}

// OptionsFrom переносит настройки генерации из конфига.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Width:            cfg.Game.Width,
		Height:           cfg.Game.Height,
		MaxRooms:         cfg.MapGen.MaxRooms,
		MinRoomSize:      cfg.MapGen.MinRoomSize,
		MaxRoomSize:      cfg.MapGen.MaxRoomSize,
		History:          cfg.MapGen.History,
		MaxAttempts:      cfg.MapGen.MaxAttempts,
		StairsAtLastRoom: cfg.MapGen.StairsAtLastRoom,
		CaveIterations:   cfg.MapGen.CaveIterations,
		MinFloorFraction: cfg.MapGen.MinFloorFraction,
	}
}

// DefaultOptions - настройки генерации из конфига по умолчанию.
func DefaultOptions() Options {
	return OptionsFrom(config.Default())
}

// canvas - карта в процессе построения плюс история снимков.
type canvas struct {
	m       *domain.Map
	opts    Options
	history []Snapshot
}

func newCanvas(opts Options, depth int) *canvas {
	return &canvas{
		m:    domain.NewMap(opts.Width, opts.Height, depth),
		opts: opts,
	}
}

func (c *canvas) snapshot(label string) {
	if !c.opts.History {
		return
	}
	c.history = append(c.history, Snapshot{
		Step:  len(c.history),
		Label: label,
		Map:   c.m.Clone(),
	})
}

func (c *canvas) floor(x, y int) {
	c.m.SetTile(domain.Position{X: x, Y: y}, domain.TileFloor)
}

// applyRoom вырезает внутренность комнаты, оставляя стену по периметру.
func (c *canvas) applyRoom(room Rect) {
	for _, p := range room.Interior() {
		c.floor(p.X, p.Y)
	}
}

func (c *canvas) horizontalTunnel(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		c.floor(x, y)
	}
}

func (c *canvas) verticalTunnel(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		c.floor(x, y)
	}
}

// drawCorridor идет к цели сначала по X, потом по Y, прорубая каждую клетку.
func (c *canvas) drawCorridor(x1, y1, x2, y2 int) {
	x, y := x1, y1
	c.floor(x, y)
	for x != x2 || y != y2 {
		switch {
		case x < x2:
			x++
		case x > x2:
			x--
		case y < y2:
			y++
		default:
			y--
		}
		c.floor(x, y)
	}
}

func overlapsAny(rooms []Rect, candidate Rect) bool {
	for _, other := range rooms {
		if candidate.Intersects(other) {
			return true
		}
	}
	return false
}
