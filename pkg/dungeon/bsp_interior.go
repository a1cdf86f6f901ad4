package dungeon

import (
	"fmt"
	"sort"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/pkg/dice"
)

// MinRoomSize - ниже этой половины прямоугольник больше не делится.
const MinRoomSize = 5

// BspInterior делит всю карту пополам до мелких комнат, как планировка
// здания: стены между комнатами толщиной в одну клетку.
type BspInterior struct {
	opts Options
}

func NewBspInterior(opts Options) *BspInterior {
	return &BspInterior{opts: opts}
}

func (b *BspInterior) Name() string { return config.BuilderBspInterior }

func (b *BspInterior) Build(rng *dice.RNG, depth int) (*Result, error) {
	c := newCanvas(b.opts, depth)

	var rooms []Rect
	split(Rect{X: 1, Y: 1, W: c.m.Width - 3, H: c.m.Height - 3}, rng, &rooms)

	for i, room := range rooms {
		// Вся площадь прямоугольника становится полом: правая и нижняя
		// стены появляются из зазора, оставленного при делении.
		for y := room.Y; y < room.Y2(); y++ {
			for x := room.X; x < room.X2(); x++ {
				c.floor(x, y)
			}
		}
		c.snapshot(fmt.Sprintf("room %d", i))
	}

	if len(rooms) < 2 {
		return nil, fmt.Errorf("%s: %d rooms placed: %w", b.Name(), len(rooms), ErrDegenerateLevel)
	}

	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X < rooms[j].X })
	for i := 0; i+1 < len(rooms); i++ {
		room, next := rooms[i], rooms[i+1]
		c.drawCorridor(
			room.X+rng.RollDice(1, room.W)-1,
			room.Y+rng.RollDice(1, room.H)-1,
			next.X+rng.RollDice(1, next.W)-1,
			next.Y+rng.RollDice(1, next.H)-1,
		)
		c.snapshot(fmt.Sprintf("corridor %d", i))
	}

	last := rooms[len(rooms)-1].Center()
	return c.finish(b.Name(), rooms[0].Center(), rooms, &last)
}

// split рекурсивно делит прямоугольник пополам, оставляя между половинами
// зазор в одну клетку. Листья дописываются в out.
func split(r Rect, rng *dice.RNG, out *[]Rect) {
	var a, b Rect
	var half int
	if rng.RollDice(1, 100) <= 50 {
		half = r.W / 2
		a = Rect{X: r.X, Y: r.Y, W: half - 1, H: r.H}
		b = Rect{X: r.X + half, Y: r.Y, W: r.W - half, H: r.H}
	} else {
		half = r.H / 2
		a = Rect{X: r.X, Y: r.Y, W: r.W, H: half - 1}
		b = Rect{X: r.X, Y: r.Y + half, W: r.W, H: r.H - half}
	}

	for _, part := range []Rect{a, b} {
		if half > MinRoomSize {
			split(part, rng, out)
		} else {
			*out = append(*out, part)
		}
	}
}
