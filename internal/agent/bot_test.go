package agent

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// room - снимок комнаты 7x7 со стенами по краю, игрок в (2,2).
func room() *api.ServerResponse {
	view := &api.ServerResponse{
		Type:       api.TypeUpdate,
		State:      engine.StateAwaitingInput,
		Depth:      1,
		MyEntityID: "1",
		Grid:       &api.GridMeta{Width: 7, Height: 7},
	}
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			wall := x == 0 || y == 0 || x == 6 || y == 6
			sym := "."
			if wall {
				sym = "#"
			}
			view.Map = append(view.Map, api.TileView{X: x, Y: y, Symbol: sym, IsWall: wall, IsExplored: true})
		}
	}
	view.Entities = append(view.Entities, entity("1", domain.KindPlayer, 2, 2, 30, 30))
	return view
}

func entity(id string, kind domain.EntityKind, x, y, hp, maxHP int) api.EntityView {
	ev := api.EntityView{ID: id, Type: kind.String(), Pos: api.Point{X: x, Y: y}}
	if kind != domain.KindItem {
		ev.Stats = &api.StatsView{HP: hp, MaxHP: maxHP}
	}
	return ev
}

func setTile(view *api.ServerResponse, x, y int, sym string) {
	for i := range view.Map {
		if view.Map[i].X == x && view.Map[i].Y == y {
			view.Map[i].Symbol = sym
			view.Map[i].IsWall = sym == "#"
		}
	}
}

func direction(t *testing.T, cmd api.ClientCommand) api.DirectionPayload {
	t.Helper()
	require.Equal(t, "MOVE", cmd.Action)
	var dir api.DirectionPayload
	require.NoError(t, json.Unmarshal(cmd.Payload, &dir))
	return dir
}

func TestDecide(t *testing.T) {
	bot := NewBot("test", nil)

	t.Run("attacks adjacent monster", func(t *testing.T) {
		view := room()
		view.Entities = append(view.Entities, entity("9", domain.KindMonster, 3, 3, 10, 10))
		assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: 1}, direction(t, bot.decide(view)))
	})

	t.Run("ignores dead monster", func(t *testing.T) {
		view := room()
		dead := entity("9", domain.KindMonster, 3, 3, 0, 10)
		dead.Stats.IsDead = true
		view.Entities = append(view.Entities, dead)
		setTile(view, 2, 2, ">")
		assert.Equal(t, "DESCEND", bot.decide(view).Action)
	})

	t.Run("descends on stairs", func(t *testing.T) {
		view := room()
		setTile(view, 2, 2, ">")
		assert.Equal(t, "DESCEND", bot.decide(view).Action)
	})

	t.Run("walks to stairs", func(t *testing.T) {
		view := room()
		setTile(view, 5, 2, ">")
		assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: 0}, direction(t, bot.decide(view)))
	})

	t.Run("heals when hurt", func(t *testing.T) {
		view := room()
		view.Entities[0].Stats.HP = 10
		view.Inventory = []api.ItemView{{ID: "77", Name: "Health Potion", Heal: 8}}
		cmd := bot.decide(view)
		assert.Equal(t, "USE", cmd.Action)
		assert.JSONEq(t, `{"itemId":"77"}`, string(cmd.Payload))
	})

	t.Run("picks up item underfoot", func(t *testing.T) {
		view := room()
		view.Entities = append(view.Entities, entity("5", domain.KindItem, 2, 2, 0, 0))
		assert.Equal(t, "PICKUP", bot.decide(view).Action)
	})

	t.Run("cancels targeting", func(t *testing.T) {
		view := room()
		view.State = engine.StateShowTargeting
		assert.Equal(t, "CANCEL", bot.decide(view).Action)
	})

	t.Run("explores frontier", func(t *testing.T) {
		view := room()
		// Проем в правой стене ведет в неизвестность
		setTile(view, 6, 2, ".")
		view.Grid.Width = 10
		assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: 0}, direction(t, bot.decide(view)))
	})

	t.Run("waits when nothing to do", func(t *testing.T) {
		view := room()
		assert.Equal(t, "WAIT", bot.decide(view).Action)
	})
}

// scripted отдает заготовленные снимки по очереди.
type scripted struct {
	views []*api.ServerResponse
	sent  []string
}

func (s *scripted) Submit(_ context.Context, cmd api.ClientCommand) (*api.ServerResponse, error) {
	s.sent = append(s.sent, cmd.Action)
	if len(s.views) == 0 {
		return nil, engine.ErrGameOver
	}
	v := s.views[0]
	s.views = s.views[1:]
	return v, nil
}

func TestRun_StopsOnGameOver(t *testing.T) {
	over := room()
	over.Type = api.TypeGameOver
	over.State = engine.StateGameOver
	over.Tick = 4

	cmd := &scripted{views: []*api.ServerResponse{room(), over}}
	sum, err := NewBot("test", cmd).Run(context.Background(), 100)
	require.NoError(t, err)

	assert.True(t, sum.Died)
	assert.Equal(t, 1, sum.Commands)
	assert.Equal(t, 4, sum.Tick)
	assert.Equal(t, []string{"INIT", "WAIT"}, cmd.sent)
}

func TestRun_CommandLimit(t *testing.T) {
	cmd := &scripted{}
	for i := 0; i < 10; i++ {
		cmd.views = append(cmd.views, room())
	}
	sum, err := NewBot("test", cmd).Run(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, sum.Died)
	assert.Equal(t, 3, sum.Commands)
}

func TestRun_PlaysRealSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := engine.NewRegistry(config.Default(), nil)
	s, err := reg.Start(ctx, 21)
	require.NoError(t, err)

	sum, err := NewBot("smoke", s).Run(ctx, 200)
	require.NoError(t, err)
	assert.Positive(t, sum.Commands)
	assert.Positive(t, sum.Tick)
	assert.GreaterOrEqual(t, sum.Depth, 1)

	cancel()
	reg.Wait()
}
