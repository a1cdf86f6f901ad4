package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine/handlers"
	"github.com/amixtum/dd2/pkg/api"
)

func TestMove_Success(t *testing.T) {
	g := newTestGame(t)

	resp := mustSend(t, g, "MOVE", api.DirectionPayload{Dx: 1})

	want := domain.Position{X: 6, Y: 5}
	if g.PlayerEntity().Pos != want {
		t.Errorf("Expected pos %v, got %v", want, g.PlayerEntity().Pos)
	}
	assert.Equal(t, want, g.playerPos)
	assert.True(t, g.Map.IsBlocked(want))
	assert.False(t, g.Map.IsBlocked(playerStart))

	assert.Equal(t, 1, resp.Tick)
	assert.Equal(t, StateAwaitingInput, resp.State)
	assert.Equal(t, api.TypeUpdate, resp.Type)
}

func TestMove_MomentumCarriesThroughWait(t *testing.T) {
	g := newTestGame(t)

	mustSend(t, g, "MOVE", api.DirectionPayload{Dx: 1})
	mustSend(t, g, "WAIT", nil)
	// 0.77 * 0.66 > zero_speed: игрок проезжает еще клетку
	assert.Equal(t, domain.Position{X: 7, Y: 5}, g.PlayerEntity().Pos)

	mustSend(t, g, "WAIT", nil)
	assert.Equal(t, domain.Position{X: 7, Y: 5}, g.PlayerEntity().Pos, "momentum decays below one cell")
	assert.Equal(t, 3, g.Turn)
}

func TestMove_CrashIntoWall(t *testing.T) {
	g := newTestGame(t)

	for i := 0; i < 5; i++ {
		mustSend(t, g, "MOVE", api.DirectionPayload{Dx: -1})
	}

	player := g.PlayerEntity()
	assert.Equal(t, domain.Position{X: 1, Y: 5}, player.Pos)
	assert.True(t, player.Motion.Velocity.IsZero(), "fallover resets velocity")
	assert.Contains(t, logTexts(g), "You crash into something and fall over.")
}

func TestMove_BumpAttacks(t *testing.T) {
	g := newTestGame(t)
	orc := spawnMonster(g, domain.Position{X: 6, Y: 5}, 16, 1, 4)

	mustSend(t, g, "MOVE", api.DirectionPayload{Dx: 1})

	assert.Equal(t, playerStart, g.PlayerEntity().Pos, "bump does not move")
	assert.Equal(t, 12, orc.Stats.HP, "5 power - 1 defense")
	assert.Equal(t, 28, g.PlayerEntity().Stats.HP, "orc hits back: 4 power - 2 defense")
	assert.Contains(t, logTexts(g), "Player hits Orc, for 4 hp.")
}

func TestMove_KillMonster(t *testing.T) {
	g := newTestGame(t)
	at := domain.Position{X: 6, Y: 5}
	orc := spawnMonster(g, at, 4, 0, 4)

	mustSend(t, g, "MOVE", api.DirectionPayload{Dx: 1})

	assert.Nil(t, g.World.Get(orc.ID))
	assert.False(t, g.Map.IsBlocked(at))
	assert.Contains(t, logTexts(g), "Orc is dead")
	assert.Equal(t, 30, g.PlayerEntity().Stats.HP, "dead orc does not strike back")
}

func TestGameOver(t *testing.T) {
	g := newTestGame(t)
	g.PlayerEntity().Stats.HP = 1
	spawnMonster(g, domain.Position{X: 6, Y: 5}, 16, 0, 10)

	resp := mustSend(t, g, "WAIT", nil)

	assert.Equal(t, api.TypeGameOver, resp.Type)
	assert.Equal(t, StateGameOver, g.State.Current())
	assert.Contains(t, logTexts(g), "You are dead")
	require.NotNil(t, g.World.Get(g.Player), "dead player stays in the world")

	_, err := send(g, "MOVE", api.DirectionPayload{Dx: 1})
	assert.True(t, errors.Is(err, ErrGameOver))

	resp = mustSend(t, g, "INIT", nil)
	assert.Equal(t, api.TypeInit, resp.Type)
	assert.Equal(t, StateGameOver, resp.State)
}

func TestHandle_Rejects(t *testing.T) {
	g := newTestGame(t)

	tests := []struct {
		name    string
		action  string
		payload any
		want    error
	}{
		{"unknown action", "DANCE", nil, ErrUnknownAction},
		{"target outside targeting", "TARGET", api.PositionPayload{X: 1, Y: 1}, ErrWrongState},
		{"cancel outside targeting", "CANCEL", nil, ErrWrongState},
		{"missing payload", "MOVE", nil, handlers.ErrMissingPayload},
		{"step too large", "MOVE", api.DirectionPayload{Dx: 2}, api.ErrStepTooLarge},
		{"zero step", "MOVE", api.DirectionPayload{}, api.ErrZeroVector},
		{"bad item id", "USE", api.ItemPayload{ItemID: "abc"}, api.ErrBadItemID},
		{"foreign item", "DROP", api.ItemPayload{ItemID: "12345"}, handlers.ErrItemNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := send(g, tt.action, tt.payload)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	assert.Equal(t, 0, g.Turn, "rejected commands never run a tick")
	assert.Equal(t, StateAwaitingInput, g.State.Current())
}

func TestPickupAndDrink(t *testing.T) {
	g := newTestGame(t)
	player := g.PlayerEntity()
	player.Stats.HP = 20
	at := playerStart
	item := spawnItem(g, "Health Potion", &at, potion())

	resp := mustSend(t, g, "PICKUP", nil)
	require.Len(t, resp.Inventory, 1)
	assert.Equal(t, item.ID.Wire(), resp.Inventory[0].ID)
	assert.Equal(t, 8, resp.Inventory[0].Heal)
	assert.False(t, item.HasPos)
	assert.Contains(t, logTexts(g), "You pick up the Health Potion.")

	resp = mustSend(t, g, "USE", api.ItemPayload{ItemID: item.ID.Wire()})
	assert.Equal(t, 28, player.Stats.HP)
	assert.Nil(t, g.World.Get(item.ID), "potion is consumed")
	assert.Empty(t, resp.Inventory)
	assert.Equal(t, 2, g.Turn)
}

func TestPickup_NothingHere(t *testing.T) {
	g := newTestGame(t)

	resp := mustSend(t, g, "PICKUP", nil)

	assert.Equal(t, 0, g.Turn)
	require.NotEmpty(t, resp.Logs)
	assert.Equal(t, "There is nothing here to pickup", resp.Logs[len(resp.Logs)-1].Text)
}

func TestDrop(t *testing.T) {
	g := newTestGame(t)
	item := spawnItem(g, "Health Potion", nil, potion())

	mustSend(t, g, "DROP", api.ItemPayload{ItemID: item.ID.Wire()})

	assert.Nil(t, item.Backpack)
	assert.True(t, item.HasPos)
	assert.Equal(t, playerStart, item.Pos)
	assert.Contains(t, g.Map.EntitiesAt(playerStart.X, playerStart.Y), item.ID)
}

func TestTargeting_ConfirmHits(t *testing.T) {
	g := newTestGame(t)
	orc := spawnMonster(g, domain.Position{X: 8, Y: 5}, 16, 1, 4)
	scroll := spawnItem(g, "Magic Missile Scroll", nil, missile())

	resp := mustSend(t, g, "USE", api.ItemPayload{ItemID: scroll.ID.Wire()})
	assert.Equal(t, StateShowTargeting, resp.State)
	require.NotNil(t, resp.Targeting)
	assert.Equal(t, scroll.ID.Wire(), resp.Targeting.ItemID)
	assert.Contains(t, resp.Targeting.Cells, api.Point{X: 8, Y: 5})
	assert.Equal(t, 0, g.Turn, "choosing a target is free")

	_, err := send(g, "MOVE", api.DirectionPayload{Dx: 1})
	assert.True(t, errors.Is(err, ErrWrongState))

	resp = mustSend(t, g, "TARGET", api.PositionPayload{X: 8, Y: 5})
	assert.Equal(t, StateAwaitingInput, resp.State)
	assert.Nil(t, resp.Targeting)
	assert.Equal(t, 8, orc.Stats.HP)
	assert.Nil(t, g.World.Get(scroll.ID))
	assert.Contains(t, logTexts(g), "You use Magic Missile Scroll on Orc, inflicting 8 hp.")
	assert.Equal(t, 1, g.Turn)
}

func TestTargeting_RefuseAndCancel(t *testing.T) {
	g := newTestGame(t)
	scroll := spawnItem(g, "Magic Missile Scroll", nil, missile())

	mustSend(t, g, "USE", api.ItemPayload{ItemID: scroll.ID.Wire()})

	resp := mustSend(t, g, "TARGET", api.PositionPayload{X: 15, Y: 15})
	assert.Equal(t, StateShowTargeting, resp.State, "invalid target keeps targeting open")
	require.NotEmpty(t, resp.Logs)
	assert.Equal(t, "That is out of range.", resp.Logs[len(resp.Logs)-1].Text)

	resp = mustSend(t, g, "CANCEL", nil)
	assert.Equal(t, StateAwaitingInput, resp.State)
	assert.NotNil(t, g.World.Get(scroll.ID), "scroll is kept")
	assert.Equal(t, 0, g.Turn)
}

func TestTargeting_DirectTarget(t *testing.T) {
	g := newTestGame(t)
	orc := spawnMonster(g, domain.Position{X: 7, Y: 7}, 16, 1, 4)
	scroll := spawnItem(g, "Magic Missile Scroll", nil, missile())

	resp := mustSend(t, g, "USE", api.ItemPayload{
		ItemID: scroll.ID.Wire(),
		Target: &api.PositionPayload{X: 7, Y: 7},
	})

	assert.Equal(t, StateAwaitingInput, resp.State)
	assert.Equal(t, 8, orc.Stats.HP)
}

func TestDescend(t *testing.T) {
	g := newTestGame(t)
	player := g.PlayerEntity()
	player.Stats.HP = 10
	kept := spawnItem(g, "Health Potion", nil, potion())
	floor := domain.Position{X: 9, Y: 9}
	dropped := spawnItem(g, "Health Potion", &floor, potion())
	orc := spawnMonster(g, domain.Position{X: 12, Y: 12}, 16, 1, 4)

	mustSend(t, g, "DESCEND", nil)
	assert.Equal(t, 1, g.Map.Depth)
	assert.Equal(t, "There is no way down from here", g.Log.Last())

	g.Map.SetTile(playerStart, domain.TileDownStairs)
	resp := mustSend(t, g, "DESCEND", nil)

	assert.Equal(t, 2, g.Map.Depth)
	assert.Equal(t, 2, resp.Depth)
	assert.Equal(t, StateAwaitingInput, resp.State)
	assert.Equal(t, 15, player.Stats.HP, "heals to half of max")
	assert.Equal(t, descendMessage, g.Log.Last())

	assert.NotNil(t, g.World.Get(kept.ID), "backpack survives")
	assert.Nil(t, g.World.Get(dropped.ID))
	assert.Nil(t, g.World.Get(orc.ID))

	cfg := config.Default()
	assert.Equal(t, cfg.Game.Width, g.Map.Width)
	assert.True(t, g.Map.TileAt(player.Pos).IsWalkable())
	assert.True(t, g.Map.IsBlocked(player.Pos))
	assert.Equal(t, player.Pos, g.playerPos)
	assert.Equal(t, 1, g.Map.Count(domain.TileDownStairs))
	assert.True(t, g.Map.Visible.Has(player.Pos), "visibility recomputed on the new level")
}

func TestDescend_KeepsHigherHP(t *testing.T) {
	g := newTestGame(t)
	g.Map.SetTile(playerStart, domain.TileDownStairs)

	mustSend(t, g, "DESCEND", nil)
	assert.Equal(t, 30, g.PlayerEntity().Stats.HP)
}

func TestView(t *testing.T) {
	g := newTestGame(t)
	spawnMonster(g, domain.Position{X: 7, Y: 5}, 16, 1, 4)
	hidden := spawnMonster(g, domain.Position{X: 17, Y: 17}, 16, 1, 4)
	at := domain.Position{X: 6, Y: 6}
	spawnItem(g, "Health Potion", &at, potion())
	g.Log.Add("hello")

	resp := g.View()

	assert.Equal(t, "test", resp.Session)
	assert.Equal(t, g.Player.Wire(), resp.MyEntityID)
	require.NotNil(t, resp.Grid)
	assert.Equal(t, 20, resp.Grid.Width)

	require.Len(t, resp.Entities, 3, "player, orc in view, floor item")
	for i := 1; i < len(resp.Entities); i++ {
		assert.GreaterOrEqual(t, resp.Entities[i-1].Render.Order, resp.Entities[i].Render.Order)
	}
	last := resp.Entities[len(resp.Entities)-1]
	assert.Equal(t, "PLAYER", last.Type, "player is drawn last")
	assert.NotNil(t, last.Motion)
	for _, e := range resp.Entities {
		assert.NotEqual(t, hidden.ID.Wire(), e.ID)
	}

	for _, tile := range resp.Map {
		assert.True(t, tile.IsExplored)
		p := domain.Position{X: tile.X, Y: tile.Y}
		assert.Equal(t, g.Map.Visible.Has(p), tile.IsVisible)
	}

	require.NotEmpty(t, resp.Logs)
	assert.Empty(t, g.View().Logs, "logs are sent once")
}

func TestNewGame_Deterministic(t *testing.T) {
	cfg := config.Default()

	a, err := NewGame("a", cfg, 42)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewGame("b", cfg, 42)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.Map.Tiles, b.Map.Tiles)
	assert.Equal(t, a.Builder, b.Builder)
	assert.Equal(t, a.PlayerEntity().Pos, b.PlayerEntity().Pos)
	assert.Equal(t, a.World.Len(), b.World.Len())
	assert.Equal(t, StateAwaitingInput, a.State.Current())
	assert.Equal(t, 1, a.Map.Depth)
	assert.True(t, a.Map.IsBlocked(a.PlayerEntity().Pos))
}

func TestNewGame_BadTemplates(t *testing.T) {
	cfg := config.Default()
	cfg.Spawn.Templates = "/does/not/exist.yaml"

	_, err := NewGame("x", cfg, 1)
	assert.Error(t, err)
}
