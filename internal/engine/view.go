package engine

import (
	"slices"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/systems"
	"github.com/amixtum/dd2/pkg/api"
)

// View собирает снимок мира глазами игрока. Журнал отдается только
// новыми записями: курсор сдвигается при каждом вызове.
func (g *Game) View() *api.ServerResponse {
	player := g.PlayerEntity()

	resp := &api.ServerResponse{
		Type:       api.TypeUpdate,
		Session:    g.ID,
		Tick:       g.Turn,
		Depth:      g.Map.Depth,
		State:      g.State.Current(),
		MyEntityID: player.ID.Wire(),
		Grid:       &api.GridMeta{Width: g.Map.Width, Height: g.Map.Height},
		Map:        g.tileViews(),
		Entities:   g.entityViews(player),
		Inventory:  g.inventoryViews(player),
		Targeting:  g.targetingView(player),
		Logs:       g.Log.Since(g.logSent),
	}
	g.logSent = g.Log.Len()

	if g.State.Is(StateGameOver) {
		resp.Type = api.TypeGameOver
	}
	return resp
}

// tileViews - только исследованные клетки. Обход построчный.
func (g *Game) tileViews() []api.TileView {
	m := g.Map
	var tiles []api.TileView
	for idx, tile := range m.Tiles {
		p := m.Coord(idx)
		if !m.Revealed.Has(p) {
			continue
		}
		tiles = append(tiles, api.TileView{
			X:          p.X,
			Y:          p.Y,
			Symbol:     string(tile.Glyph()),
			IsWall:     tile == domain.TileWall,
			IsVisible:  m.Visible.Has(p),
			IsExplored: true,
		})
	}
	return tiles
}

// entityViews - игрок и все, что он сейчас видит. Сортировка по убыванию
// RenderOrder: то, что рисуется поверх, идет последним.
func (g *Game) entityViews(player *domain.Entity) []api.EntityView {
	var visible []*domain.Entity
	g.World.Each(func(e *domain.Entity) {
		if !e.HasPos || e.Render == nil {
			return
		}
		if e.ID == player.ID || g.Map.Visible.Has(e.Pos) {
			visible = append(visible, e)
		}
	})

	slices.SortStableFunc(visible, func(a, b *domain.Entity) int {
		return b.Render.RenderOrder - a.Render.RenderOrder
	})

	views := make([]api.EntityView, 0, len(visible))
	for _, e := range visible {
		views = append(views, toEntityView(e, e.ID == player.ID))
	}
	return views
}

// toEntityView конвертирует доменную сущность в DTO для отправки клиенту.
func toEntityView(e *domain.Entity, isMe bool) api.EntityView {
	view := api.EntityView{
		ID:   e.ID.Wire(),
		Type: e.Kind().String(),
		Name: e.Name,
		Pos:  api.Point{X: e.Pos.X, Y: e.Pos.Y},
	}
	view.Render.Symbol = string(e.Render.Glyph)
	view.Render.Color = e.Render.Color
	view.Render.Order = e.Render.RenderOrder

	if e.Stats != nil {
		view.Stats = &api.StatsView{
			HP:      e.Stats.HP,
			MaxHP:   e.Stats.MaxHP,
			Power:   e.Stats.Power,
			Defense: e.Stats.Defense,
			IsDead:  e.Stats.IsDead(),
		}
	}

	// Скорость и баланс видны только владельцу
	if isMe && e.Motion != nil {
		view.Motion = &api.MotionView{
			VX:       e.Motion.Velocity.X,
			VY:       e.Motion.Velocity.Y,
			BalanceX: e.Motion.Balance.X,
			BalanceY: e.Motion.Balance.Y,
		}
	}
	return view
}

func (g *Game) inventoryViews(player *domain.Entity) []api.ItemView {
	var items []api.ItemView
	for _, it := range g.World.BackpackOf(player.ID) {
		v := api.ItemView{
			ID:   it.ID.Wire(),
			Name: it.Name,
		}
		if it.Render != nil {
			v.Symbol = string(it.Render.Glyph)
			v.Color = it.Render.Color
		}
		if c := it.Item; c != nil {
			v.Consumable = c.Consumable
			v.Heal = c.ProvidesHealing
			v.Range = c.Ranged
			v.Damage = c.InflictsDamage
			v.Radius = c.AreaOfEffect
		}
		items = append(items, v)
	}
	return items
}

// targetingView - подсветка допустимых целей в режиме прицеливания.
func (g *Game) targetingView(player *domain.Entity) *api.TargetingView {
	if !g.State.Is(StateShowTargeting) {
		return nil
	}
	item := g.World.Get(g.pending)
	if item == nil || item.Item == nil {
		return nil
	}
	tv := &api.TargetingView{
		ItemID: item.ID.Wire(),
		Range:  item.Item.Ranged,
	}
	for _, p := range systems.TargetsInRange(g.sys, player, item) {
		tv.Cells = append(tv.Cells, api.Point{X: p.X, Y: p.Y})
	}
	return tv
}
