package dungeon

import (
	"fmt"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/pkg/dice"
)

// RoomsAndCorridors - прямоугольные комнаты без пересечений, каждая новая
// соединяется с предыдущей Г-образным коридором.
type RoomsAndCorridors struct {
	opts Options
}

func NewRoomsAndCorridors(opts Options) *RoomsAndCorridors {
	return &RoomsAndCorridors{opts: opts}
}

func (b *RoomsAndCorridors) Name() string { return config.BuilderRooms }

func (b *RoomsAndCorridors) Build(rng *dice.RNG, depth int) (*Result, error) {
	c := newCanvas(b.opts, depth)
	rooms := make([]Rect, 0, b.opts.MaxRooms)

	for i := 0; i < b.opts.MaxRooms; i++ {
		w := rng.Range(b.opts.MinRoomSize, b.opts.MaxRoomSize)
		h := rng.Range(b.opts.MinRoomSize, b.opts.MaxRoomSize)
		x := rng.RollDice(1, c.m.Width-w-1) - 1
		y := rng.RollDice(1, c.m.Height-h-1) - 1
		room := Rect{X: x, Y: y, W: w, H: h}

		if overlapsAny(rooms, room) {
			continue
		}

		c.applyRoom(room)
		c.snapshot(fmt.Sprintf("room %d", len(rooms)))

		if len(rooms) > 0 {
			prev := rooms[len(rooms)-1].Center()
			next := room.Center()
			if rng.Range(0, 2) == 1 {
				c.horizontalTunnel(prev.X, next.X, prev.Y)
				c.verticalTunnel(prev.Y, next.Y, next.X)
			} else {
				c.verticalTunnel(prev.Y, next.Y, prev.X)
				c.horizontalTunnel(prev.X, next.X, next.Y)
			}
		}
		rooms = append(rooms, room)
		c.snapshot(fmt.Sprintf("corridor %d", len(rooms)-1))
	}

	if len(rooms) < 2 {
		return nil, fmt.Errorf("%s: %d rooms placed: %w", b.Name(), len(rooms), ErrDegenerateLevel)
	}

	last := rooms[len(rooms)-1].Center()
	return c.finish(b.Name(), rooms[0].Center(), rooms, &last)
}
