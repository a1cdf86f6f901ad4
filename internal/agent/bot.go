package agent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine"
	"github.com/amixtum/dd2/internal/pathing"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

// Commander - то, чему бот отправляет команды. *engine.Session подходит.
type Commander interface {
	Submit(ctx context.Context, cmd api.ClientCommand) (*api.ServerResponse, error)
}

// Bot - "Игрок-компьютер" (Headless Agent). Играет так же, как клиент:
// получает снимок мира, видит только то, что видит игрок, и отправляет
// команды через сессию.
//
// Жизненный цикл:
//  1. NewBot -> привязка к сессии.
//  2. Run -> INIT, затем цикл decide/Submit до конца игры или лимита ходов.
//  3. decide -> локальная карта из снимка, бой, лестница или разведка.
type Bot struct {
	// Pace - пауза между командами, чтобы за ботом могли следить зрители.
	Pace time.Duration

	cmd Commander
	log *logrus.Entry
}

// Summary - итог игры бота.
type Summary struct {
	Commands int
	Tick     int
	Depth    int
	Died     bool
}

func NewBot(name string, cmd Commander) *Bot {
	return &Bot{
		cmd: cmd,
		log: logger.For("bot").WithField("bot", name),
	}
}

// Run играет до смерти, отмены контекста или maxCommands команд.
func (b *Bot) Run(ctx context.Context, maxCommands int) (Summary, error) {
	var sum Summary

	view, err := b.cmd.Submit(ctx, api.ClientCommand{Action: domain.ActionInit.String()})
	if err != nil {
		return sum, err
	}

	for sum.Commands < maxCommands {
		sum.Tick, sum.Depth = view.Tick, view.Depth
		if view.Type == api.TypeGameOver || view.State == engine.StateGameOver {
			sum.Died = true
			break
		}

		if b.Pace > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(b.Pace):
			}
		}

		cmd := b.decide(view)
		next, err := b.cmd.Submit(ctx, cmd)
		sum.Commands++
		if errors.Is(err, engine.ErrGameOver) {
			sum.Died = true
			break
		}
		if err != nil {
			return sum, err
		}
		view = next
	}

	b.log.WithFields(logrus.Fields{
		"commands": sum.Commands,
		"tick":     sum.Tick,
		"depth":    sum.Depth,
		"died":     sum.Died,
	}).Info("Bot finished")
	return sum, nil
}

// decide - мозг бота. Приоритеты: отменить прицеливание, подлечиться,
// подобрать предмет, ударить соседа, спуститься, дойти до лестницы,
// разведать, ждать.
func (b *Bot) decide(view *api.ServerResponse) api.ClientCommand {
	if view.State == engine.StateShowTargeting {
		return command(domain.ActionCancel, nil)
	}

	local := buildLocalMap(view)
	self, items, monsters := findActors(view)
	if self == nil {
		return command(domain.ActionWait, nil)
	}
	me := domain.Position{X: self.Pos.X, Y: self.Pos.Y}

	// --- ПРЕДМЕТЫ ---
	if st := self.Stats; st != nil && st.HP*2 < st.MaxHP {
		for _, it := range view.Inventory {
			if it.Heal > 0 {
				return ItemCommand(domain.ActionUse, it)
			}
		}
	}
	for _, p := range items {
		if p == me {
			return command(domain.ActionPickup, nil)
		}
	}

	// --- БОЙ ---
	for _, m := range monsters {
		dx, dy := m.X-me.X, m.Y-me.Y
		if abs(dx) <= 1 && abs(dy) <= 1 {
			return move(dx, dy)
		}
		local.Blocked.Put(m)
	}

	// --- ЛЕСТНИЦА ---
	if local.TileAt(me) == domain.TileDownStairs {
		return command(domain.ActionDescend, nil)
	}
	finder := pathing.NewFinder(local)
	for idx, t := range local.Tiles {
		if t == domain.TileDownStairs {
			if step, ok := firstStep(finder.AStar(me, local.Coord(idx))); ok {
				return move(step.X-me.X, step.Y-me.Y)
			}
		}
	}

	// --- РАЗВЕДКА ---
	if goal, ok := nearestFrontier(local, view, me); ok {
		if step, ok := firstStep(finder.AStar(me, goal)); ok {
			return move(step.X-me.X, step.Y-me.Y)
		}
	}

	return command(domain.ActionWait, nil)
}

// buildLocalMap строит карту из снимка. Все, чего бот не видел, считается
// стеной, чтобы не строить пути в неизвестность.
func buildLocalMap(view *api.ServerResponse) *domain.Map {
	w, h := 1, 1
	if view.Grid != nil {
		w, h = view.Grid.Width, view.Grid.Height
	}
	m := domain.NewMap(w, h, view.Depth)
	for _, tv := range view.Map {
		p := domain.Position{X: tv.X, Y: tv.Y}
		switch {
		case tv.IsWall:
			m.SetTile(p, domain.TileWall)
		case tv.Symbol == string(domain.TileDownStairs.Glyph()):
			m.SetTile(p, domain.TileDownStairs)
		default:
			m.SetTile(p, domain.TileFloor)
		}
	}
	m.RecomputeBlocked()
	return m
}

// findActors ищет в снимке себя, предметы на полу и живых монстров.
func findActors(view *api.ServerResponse) (me *api.EntityView, items, monsters []domain.Position) {
	for i, ev := range view.Entities {
		p := domain.Position{X: ev.Pos.X, Y: ev.Pos.Y}
		switch {
		case ev.ID == view.MyEntityID:
			me = &view.Entities[i]
		case ev.Type == domain.KindItem.String():
			items = append(items, p)
		case ev.Type == domain.KindMonster.String() && (ev.Stats == nil || !ev.Stats.IsDead):
			monsters = append(monsters, p)
		}
	}
	return me, items, monsters
}

// nearestFrontier - ближайшая исследованная клетка пола рядом с неизвестной.
func nearestFrontier(m *domain.Map, view *api.ServerResponse, from domain.Position) (domain.Position, bool) {
	known := make(map[domain.Position]bool, len(view.Map))
	for _, tv := range view.Map {
		known[domain.Position{X: tv.X, Y: tv.Y}] = true
	}

	dm := pathing.NewFinder(m).Dijkstra(from)
	best, found := domain.Position{}, false
	for idx, t := range m.Tiles {
		p := m.Coord(idx)
		if !t.IsWalkable() || p == from || !dm.Reachable(p) || !hasUnknownNeighbour(m, known, p) {
			continue
		}
		if !found || dm.At(p) < dm.At(best) {
			best, found = p, true
		}
	}
	return best, found
}

func hasUnknownNeighbour(m *domain.Map, known map[domain.Position]bool, p domain.Position) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			n := domain.Position{X: p.X + dx, Y: p.Y + dy}
			if m.Contains(n) && !known[n] {
				return true
			}
		}
	}
	return false
}

func firstStep(path []domain.Position) (domain.Position, bool) {
	if len(path) < 2 {
		return domain.Position{}, false
	}
	return path[1], true
}

// --- Хелперы для команд ---

func command(action domain.ActionType, payload any) api.ClientCommand {
	cmd := api.ClientCommand{Action: action.String()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err == nil {
			cmd.Payload = raw
		}
	}
	return cmd
}

func move(dx, dy int) api.ClientCommand {
	return command(domain.ActionMove, api.DirectionPayload{Dx: dx, Dy: dy})
}

// ItemCommand - команда USE/DROP для предмета из рюкзака.
func ItemCommand(action domain.ActionType, item api.ItemView) api.ClientCommand {
	return command(action, api.ItemPayload{ItemID: item.ID})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
