package dungeon

import (
	"fmt"
	"sort"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/dice"
)

const bspDungeonAttempts = 240

// BspDungeon режет карту на прямоугольники и пытается поместить комнату
// в случайный из них. Принятая комната делит свой прямоугольник дальше.
type BspDungeon struct {
	opts  Options
	rects []Rect
}

func NewBspDungeon(opts Options) *BspDungeon {
	return &BspDungeon{opts: opts}
}

func (b *BspDungeon) Name() string { return config.BuilderBspDungeon }

func (b *BspDungeon) Build(rng *dice.RNG, depth int) (*Result, error) {
	c := newCanvas(b.opts, depth)
	b.rects = b.rects[:0]

	// Прямоугольник от (2,2) до (W-5,H-5)
	first := Rect{X: 2, Y: 2, W: c.m.Width - 7, H: c.m.Height - 7}
	b.rects = append(b.rects, first)
	b.addSubrects(first)

	var rooms []Rect
	for i := 0; i < bspDungeonAttempts; i++ {
		rect := b.randomRect(rng)
		candidate := randomSubrect(rect, rng)

		if b.isPossible(c, candidate) {
			c.applyRoom(candidate)
			rooms = append(rooms, candidate)
			b.addSubrects(rect)
			c.snapshot(fmt.Sprintf("room %d", len(rooms)-1))
		}
	}

	if len(rooms) < 2 {
		return nil, fmt.Errorf("%s: %d rooms placed: %w", b.Name(), len(rooms), ErrDegenerateLevel)
	}

	start := rooms[0].Center()

	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X < rooms[j].X })
	// Концы коридоров всегда лежат на полу комнат
	for i := 0; i+1 < len(rooms); i++ {
		from := randomInteriorPoint(rooms[i], rng)
		to := randomInteriorPoint(rooms[i+1], rng)
		c.drawCorridor(from.X, from.Y, to.X, to.Y)
		c.snapshot(fmt.Sprintf("corridor %d", i))
	}

	last := rooms[len(rooms)-1].Center()
	return c.finish(b.Name(), start, rooms, &last)
}

// addSubrects добавляет четыре четверти прямоугольника.
func (b *BspDungeon) addSubrects(r Rect) {
	halfW := max(r.W/2, 1)
	halfH := max(r.H/2, 1)

	b.rects = append(b.rects,
		Rect{X: r.X, Y: r.Y, W: halfW, H: halfH},
		Rect{X: r.X, Y: r.Y + halfH, W: halfW, H: halfH},
		Rect{X: r.X + halfW, Y: r.Y, W: halfW, H: halfH},
		Rect{X: r.X + halfW, Y: r.Y + halfH, W: halfW, H: halfH},
	)
}

func (b *BspDungeon) randomRect(rng *dice.RNG) Rect {
	if len(b.rects) == 1 {
		return b.rects[0]
	}
	return b.rects[rng.RollDice(1, len(b.rects))-1]
}

// randomSubrect - комната 4..10 клеток со смещением до 5 от угла прямоугольника.
func randomSubrect(r Rect, rng *dice.RNG) Rect {
	w := max(3, rng.RollDice(1, min(r.W, 10))-1) + 1
	h := max(3, rng.RollDice(1, min(r.H, 10))-1) + 1
	return Rect{
		X: r.X + rng.RollDice(1, 6) - 1,
		Y: r.Y + rng.RollDice(1, 6) - 1,
		W: w,
		H: h,
	}
}

// isPossible требует, чтобы комната вместе с полосой в 2 клетки вокруг
// была сплошной стеной и не касалась края карты.
func (b *BspDungeon) isPossible(c *canvas, r Rect) bool {
	for y := r.Y - 2; y < r.Y2()+2; y++ {
		for x := r.X - 2; x < r.X2()+2; x++ {
			if x > c.m.Width-2 || y > c.m.Height-2 || x < 1 || y < 1 {
				return false
			}
			if c.m.Tiles[c.m.Index(x, y)] != domain.TileWall {
				return false
			}
		}
	}
	return true
}

func randomInteriorPoint(r Rect, rng *dice.RNG) domain.Position {
	return domain.Position{
		X: r.X + rng.RollDice(1, r.W-1),
		Y: r.Y + rng.RollDice(1, r.H-1),
	}
}
