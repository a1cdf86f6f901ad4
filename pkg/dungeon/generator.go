package dungeon

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/pathing"
	"github.com/amixtum/dd2/pkg/dice"
	"github.com/amixtum/dd2/pkg/logger"
)

// caveChunk - сторона квадрата, на которые режется пещера для спавна.
const caveChunk = 8

// Names - все построители, из которых выбирает режим "random".
var Names = []string{
	config.BuilderRooms,
	config.BuilderBspDungeon,
	config.BuilderBspInterior,
	config.BuilderCellular,
}

// New создает построитель по имени.
func New(name string, opts Options) (Builder, error) {
	switch name {
	case config.BuilderRooms:
		return NewRoomsAndCorridors(opts), nil
	case config.BuilderBspDungeon:
		return NewBspDungeon(opts), nil
	case config.BuilderBspInterior:
		return NewBspInterior(opts), nil
	case config.BuilderCellular:
		return NewCellularAutomata(opts), nil
	default:
		return nil, fmt.Errorf("unknown builder %q", name)
	}
}

// Pick разрешает "random" в конкретный построитель броском кубика.
func Pick(name string, opts Options, rng *dice.RNG) (Builder, error) {
	if name == config.BuilderRandom {
		name = Names[rng.RollDice(1, len(Names))-1]
	}
	return New(name, opts)
}

// Generate строит уровень. Вырожденный результат повторяется с производным
// сидом до opts.MaxAttempts раз, после чего ошибка считается фатальной.
func Generate(name string, opts Options, rng *dice.RNG, depth int) (*Result, error) {
	attempts := max(opts.MaxAttempts, 1)
	log := logger.For("mapgen")

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		r := rng
		if attempt > 0 {
			r = rng.Derive(fmt.Sprintf("retry-%d-%d", depth, attempt))
		}

		b, err := Pick(name, opts, r)
		if err != nil {
			return nil, fmt.Errorf("generate level %d: %w", depth, err)
		}

		res, err := b.Build(r, depth)
		if err == nil {
			log.WithFields(logrus.Fields{
				"builder": res.Builder,
				"depth":   depth,
				"attempt": attempt,
				"rooms":   len(res.Rooms),
				"floor":   res.Map.Count(domain.TileFloor),
			}).Debug("Level generated")
			return res, nil
		}
		if !errors.Is(err, ErrDegenerateLevel) {
			return nil, fmt.Errorf("generate level %d: %w", depth, err)
		}

		log.WithError(err).WithFields(logrus.Fields{
			"builder": b.Name(),
			"depth":   depth,
			"attempt": attempt,
		}).Warn("Degenerate level, retrying")
		lastErr = err
	}

	return nil, fmt.Errorf("generate level %d after %d attempts: %w", depth, attempts, lastErr)
}

// finish - общий хвост всех построителей: отрезать недостижимый пол,
// поставить лестницу и разметить области спавна.
// stairsHint используется только при stairs_at_last_room.
func (c *canvas) finish(name string, start domain.Position, rooms []Rect, stairsHint *domain.Position) (*Result, error) {
	m := c.m
	if !m.TileAt(start).IsWalkable() {
		return nil, fmt.Errorf("%s: start %v is not floor: %w", name, start, ErrDegenerateLevel)
	}

	dm := pathing.NewFinder(m).Dijkstra(start)
	for idx, t := range m.Tiles {
		if t.IsWalkable() && dm.Costs[idx] < 0 {
			m.Tiles[idx] = domain.TileWall
		}
	}
	c.snapshot("cull")

	stairs, ok := dm.Farthest(m)
	if c.opts.StairsAtLastRoom && stairsHint != nil && dm.Reachable(*stairsHint) {
		stairs, ok = *stairsHint, true
	}
	if !ok || stairs == start {
		return nil, fmt.Errorf("%s: no room for stairs: %w", name, ErrDegenerateLevel)
	}
	m.SetTile(stairs, domain.TileDownStairs)
	c.snapshot("stairs")

	m.RecomputeBlocked()

	var regions [][]domain.Position
	if len(rooms) > 0 {
		regions = roomRegions(m, rooms, start)
	} else {
		regions = chunkRegions(m, start)
	}

	return &Result{
		Builder:      name,
		Map:          m,
		Start:        start,
		Stairs:       stairs,
		Rooms:        rooms,
		SpawnRegions: regions,
		History:      c.history,
	}, nil
}

// roomRegions - проходимые клетки каждой комнаты, кроме стартовой.
func roomRegions(m *domain.Map, rooms []Rect, start domain.Position) [][]domain.Position {
	var regions [][]domain.Position
	for _, room := range rooms {
		var cells []domain.Position
		containsStart := false
		for y := room.Y; y < room.Y2(); y++ {
			for x := room.X; x < room.X2(); x++ {
				p := domain.Position{X: x, Y: y}
				if p == start {
					containsStart = true
				}
				if m.TileAt(p).IsWalkable() {
					cells = append(cells, p)
				}
			}
		}
		if containsStart || len(cells) == 0 {
			continue
		}
		regions = append(regions, cells)
	}
	return regions
}

// chunkRegions режет пол пещеры на квадраты caveChunk x caveChunk.
// Квадрат со стартом пропускается.
func chunkRegions(m *domain.Map, start domain.Position) [][]domain.Position {
	cols := (m.Width + caveChunk - 1) / caveChunk
	rows := (m.Height + caveChunk - 1) / caveChunk
	buckets := make([][]domain.Position, cols*rows)

	for idx, t := range m.Tiles {
		if !t.IsWalkable() {
			continue
		}
		p := m.Coord(idx)
		b := (p.Y/caveChunk)*cols + p.X/caveChunk
		buckets[b] = append(buckets[b], p)
	}

	startBucket := (start.Y/caveChunk)*cols + start.X/caveChunk
	var regions [][]domain.Position
	for i, cells := range buckets {
		if i == startBucket || len(cells) == 0 {
			continue
		}
		regions = append(regions, cells)
	}
	return regions
}
