package systems

import (
	"os"
	"testing"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/rules"
	"github.com/amixtum/dd2/pkg/dice"
	"github.com/amixtum/dd2/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// recorder собирает строки журнала вместо настоящего GameLog.
type recorder struct {
	lines []string
}

func (r *recorder) Add(text string) {
	r.lines = append(r.lines, text)
}

func (r *recorder) has(text string) bool {
	for _, l := range r.lines {
		if l == text {
			return true
		}
	}
	return false
}

// Helper для создания открытой карты: пол везде, кроме явно заданных стен
func createTestMap(w, h int, walls ...domain.Position) *domain.Map {
	m := domain.NewMap(w, h, 1)
	for i := range m.Tiles {
		m.Tiles[i] = domain.TileFloor
	}
	for _, p := range walls {
		m.SetTile(p, domain.TileWall)
	}
	m.RecomputeBlocked()
	return m
}

func newTestContext(m *domain.Map) (*Context, *recorder) {
	log := &recorder{}
	return &Context{
		World:   domain.NewWorld(),
		Map:     m,
		Intents: domain.NewIntents(),
		RNG:     dice.New(1),
		Cfg:     config.Default(),
		Melee:   rules.DefaultMelee{},
		Log:     log,
	}, log
}

func creature(name string, hp, def, pow int) *domain.Entity {
	return &domain.Entity{
		Name:       name,
		BlocksTile: true,
		Motion:     &domain.Motion{},
		Stats:      &domain.CombatStats{MaxHP: hp, HP: hp, Defense: def, Power: pow},
		Viewshed:   domain.NewViewshed(8),
	}
}

func place(ctx *Context, e *domain.Entity, at domain.Position) {
	e.Place(at)
	if e.BlocksTile {
		ctx.Map.Block(at)
	}
	ctx.Map.AddContent(at, e.ID)
}

func spawnPlayer(ctx *Context, at domain.Position) *domain.Entity {
	p := creature("Player", 30, 2, 5)
	ctx.Player = ctx.World.Spawn(domain.KindPlayer, 1, p)
	place(ctx, p, at)
	pos := at
	ctx.PlayerPos = &pos
	return p
}

func spawnMonster(ctx *Context, name string, at domain.Position, hp, def, pow int) *domain.Entity {
	e := creature(name, hp, def, pow)
	e.Monster = true
	ctx.World.Spawn(domain.KindMonster, 1, e)
	place(ctx, e, at)
	return e
}

func spawnItem(ctx *Context, name string, at domain.Position, comp domain.ItemComponent) *domain.Entity {
	e := &domain.Entity{Name: name, Item: &comp}
	ctx.World.Spawn(domain.KindItem, 1, e)
	place(ctx, e, at)
	return e
}
