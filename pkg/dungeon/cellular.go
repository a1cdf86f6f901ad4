package dungeon

import (
	"fmt"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/dice"
)

// Порог заполнения: бросок 1..100 меньше floorChance дает пол.
const floorChance = 55

// CellularAutomata - пещера из случайного шума, сглаженная клеточным автоматом.
type CellularAutomata struct {
	opts Options
}

func NewCellularAutomata(opts Options) *CellularAutomata {
	return &CellularAutomata{opts: opts}
}

func (b *CellularAutomata) Name() string { return config.BuilderCellular }

func (b *CellularAutomata) Build(rng *dice.RNG, depth int) (*Result, error) {
	c := newCanvas(b.opts, depth)
	m := c.m

	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			if rng.RollDice(1, 100) < floorChance {
				c.floor(x, y)
			}
		}
	}
	c.snapshot("noise")

	for i := 0; i < b.opts.CaveIterations; i++ {
		smooth(m)
		c.snapshot(fmt.Sprintf("iteration %d", i))
	}

	// Старт: от центра карты влево до первого пола
	start := domain.Position{X: m.Width / 2, Y: m.Height / 2}
	for start.X > 0 && m.TileAt(start) != domain.TileFloor {
		start.X--
	}
	if m.TileAt(start) != domain.TileFloor {
		return nil, fmt.Errorf("%s: no floor left of centre: %w", b.Name(), ErrDegenerateLevel)
	}

	res, err := c.finish(b.Name(), start, nil, nil)
	if err != nil {
		return nil, err
	}

	need := int(b.opts.MinFloorFraction * float64(m.Width*m.Height))
	if got := res.Map.Count(domain.TileFloor) + 1; got < need {
		return nil, fmt.Errorf("%s: %d reachable tiles, need %d: %w", b.Name(), got, need, ErrDegenerateLevel)
	}
	return res, nil
}

// smooth - один шаг автомата: стена при 0 или >4 соседях-стенах, иначе пол.
// Края карты не меняются.
func smooth(m *domain.Map) {
	next := make([]domain.TileType, len(m.Tiles))
	copy(next, m.Tiles)

	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			walls := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if m.Tiles[m.Index(x+dx, y+dy)] == domain.TileWall {
						walls++
					}
				}
			}
			if walls == 0 || walls > 4 {
				next[m.Index(x, y)] = domain.TileWall
			} else {
				next[m.Index(x, y)] = domain.TileFloor
			}
		}
	}
	m.Tiles = next
}
