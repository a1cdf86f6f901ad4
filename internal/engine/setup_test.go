package engine

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

var playerStart = domain.Position{X: 5, Y: 5}

// newTestGame - комната 18x18 внутри стен 20x20, игрок в (5,5), без монстров.
func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := newGame("test", config.Default(), 1)
	require.NoError(t, err)

	m := domain.NewMap(20, 20, 1)
	for y := 1; y < 19; y++ {
		for x := 1; x < 19; x++ {
			m.SetTile(domain.Position{X: x, Y: y}, domain.TileFloor)
		}
	}
	g.Map.CopyTilesFrom(m)
	g.spawnPlayer(playerStart)
	g.refresh()

	t.Cleanup(g.Close)
	return g
}

func spawnMonster(g *Game, at domain.Position, hp, def, pow int) *domain.Entity {
	e := &domain.Entity{
		Name:       "Orc",
		Monster:    true,
		BlocksTile: true,
		Render:     &domain.Renderable{Glyph: 'o', Color: "#EF4444", RenderOrder: domain.RenderOrderMonster},
		Stats:      &domain.CombatStats{MaxHP: hp, HP: hp, Defense: def, Power: pow},
		Viewshed:   domain.NewViewshed(8),
		Motion:     &domain.Motion{},
	}
	g.World.Spawn(domain.KindMonster, g.Map.Depth, e)
	e.Place(at)
	g.Map.Block(at)
	g.Map.AddContent(at, e.ID)
	g.refresh()
	return e
}

// spawnItem кладет предмет на пол или, если at == nil, в рюкзак игрока.
func spawnItem(g *Game, name string, at *domain.Position, comp domain.ItemComponent) *domain.Entity {
	e := &domain.Entity{
		Name:   name,
		Render: &domain.Renderable{Glyph: '!', Color: "#D946EF", RenderOrder: domain.RenderOrderItem},
		Item:   &comp,
	}
	g.World.Spawn(domain.KindItem, g.Map.Depth, e)
	if at != nil {
		e.Place(*at)
		g.Map.AddContent(*at, e.ID)
	} else {
		e.Backpack = &domain.InBackpack{Owner: g.Player}
	}
	return e
}

func potion() domain.ItemComponent {
	return domain.ItemComponent{Consumable: true, ProvidesHealing: 8}
}

func missile() domain.ItemComponent {
	return domain.ItemComponent{Consumable: true, Ranged: 6, InflictsDamage: 8}
}

func send(g *Game, action string, payload any) (*api.ServerResponse, error) {
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	return g.Handle(context.Background(), api.ClientCommand{Action: action, Payload: raw})
}

func mustSend(t *testing.T, g *Game, action string, payload any) *api.ServerResponse {
	t.Helper()
	resp, err := send(g, action, payload)
	require.NoError(t, err, "%s", action)
	return resp
}

func logTexts(g *Game) []string {
	var out []string
	for _, e := range g.Log.Since(0) {
		out = append(out, e.Text)
	}
	return out
}
