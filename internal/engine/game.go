package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine/handlers"
	"github.com/amixtum/dd2/internal/engine/handlers/actions"
	"github.com/amixtum/dd2/internal/rules"
	"github.com/amixtum/dd2/internal/systems"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/dice"
	"github.com/amixtum/dd2/pkg/dungeon"
	"github.com/amixtum/dd2/pkg/logger"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrGameOver      = errors.New("game is over")
	ErrWrongState    = errors.New("action not allowed in this state")
)

// Game - одна партия: мир, карта, автомат хода и журнал.
// Не потокобезопасна: все вызовы идут из одной горутины сессии.
type Game struct {
	ID string

	cfg     *config.Config
	rng     *dice.RNG
	opts    dungeon.Options
	spawner *dungeon.Spawner
	melee   rules.MeleeFormula

	World   *domain.World
	Map     *domain.Map
	Intents *domain.Intents
	Log     *GameLog
	State   *RunState

	Player    domain.EntityID
	playerPos domain.Position
	Turn      int

	// History - снимки построения текущего уровня.
	History []dungeon.Snapshot
	Builder string

	sys      *systems.Context
	handlers map[domain.ActionType]handlers.HandlerFunc
	pending  domain.EntityID
	logSent  int
	log      *logrus.Entry
}

// NewGame строит первый уровень и ставит на него игрока.
func NewGame(id string, cfg *config.Config, seed int64) (*Game, error) {
	g, err := newGame(id, cfg, seed)
	if err != nil {
		return nil, err
	}

	res, err := g.generate(1)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("new game: %w", err)
	}
	g.spawnPlayer(res.Start)
	g.populate(res)

	g.Log.Add("Welcome to the dungeon. Mind your balance.")
	g.log.WithField("builder", g.Builder).Info("Game started")
	return g, nil
}

// newGame собирает пустую игру: шаблоны, формулу урона, автомат и
// контекст систем. Карта пока вся из стен.
func newGame(id string, cfg *config.Config, seed int64) (*Game, error) {
	tpl, err := dungeon.LoadTemplates(cfg.Spawn.Templates)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	melee, err := rules.Load(cfg.Rules.MeleeScript)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	g := &Game{
		ID:       id,
		cfg:      cfg,
		rng:      dice.New(seed),
		opts:     dungeon.OptionsFrom(cfg),
		spawner:  dungeon.NewSpawner(tpl, cfg.Spawn.MaxMonsters, cfg.Spawn.MaxItems),
		melee:    melee,
		World:    domain.NewWorld(),
		Map:      domain.NewMap(cfg.Game.Width, cfg.Game.Height, 1),
		Intents:  domain.NewIntents(),
		Log:      NewGameLog(id),
		State:    NewRunState(),
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "game",
			"session":   id,
			"seed":      seed,
		}),
	}
	g.sys = &systems.Context{
		World:     g.World,
		Map:       g.Map,
		Intents:   g.Intents,
		PlayerPos: &g.playerPos,
		RNG:       g.rng,
		Cfg:       cfg,
		Melee:     melee,
		Log:       g.Log,
	}
	g.registerHandlers()
	return g, nil
}

func (g *Game) spawnPlayer(at domain.Position) {
	player := dungeon.CreatePlayer(g.World, g.Map, g.spawner.Templates().Player, at)
	g.Player = player.ID
	g.sys.Player = player.ID
	g.playerPos = at
}

func (g *Game) registerHandlers() {
	g.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	g.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	g.handlers[domain.ActionWait] = handlers.WithEmptyPayload(actions.HandleWait)
	g.handlers[domain.ActionPickup] = handlers.WithEmptyPayload(actions.HandlePickup)
	g.handlers[domain.ActionDrop] = handlers.WithPayload(actions.HandleDrop)
	g.handlers[domain.ActionUse] = handlers.WithPayload(actions.HandleUse)
	g.handlers[domain.ActionTarget] = handlers.WithPayload(actions.HandleTarget)
	g.handlers[domain.ActionCancel] = handlers.WithEmptyPayload(actions.HandleCancel)
	g.handlers[domain.ActionDescend] = handlers.WithEmptyPayload(actions.HandleDescend)
}

// Close освобождает Lua VM, если формула урона скриптовая.
func (g *Game) Close() {
	if c, ok := g.melee.(interface{ Close() }); ok {
		c.Close()
	}
}

// PlayerEntity возвращает сущность игрока.
func (g *Game) PlayerEntity() *domain.Entity {
	return g.sys.PlayerEntity()
}

// Systems - контекст систем (нужен тестам и инструментам).
func (g *Game) Systems() *systems.Context {
	return g.sys
}

// allowed - какие команды принимаются в каком состоянии.
func (g *Game) allowed(action domain.ActionType) bool {
	if action == domain.ActionInit {
		return true
	}
	switch g.State.Current() {
	case StateAwaitingInput:
		return action != domain.ActionTarget && action != domain.ActionCancel
	case StateShowTargeting:
		return action == domain.ActionTarget || action == domain.ActionCancel
	default:
		return false
	}
}

// Handle - главный метод обработки ввода. Ошибка означает, что команда
// отклонена, а состояние игры не изменилось.
func (g *Game) Handle(ctx context.Context, cmd api.ClientCommand) (*api.ServerResponse, error) {
	action := domain.ParseAction(cmd.Action)
	h, ok := g.handlers[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	if g.State.Is(StateGameOver) && action != domain.ActionInit {
		return nil, ErrGameOver
	}
	if !g.allowed(action) {
		return nil, fmt.Errorf("%w: %s in %s", ErrWrongState, action, g.State.Current())
	}

	cmdLog := g.log.WithFields(logrus.Fields{
		"action": action.String(),
		"state":  g.State.Current(),
	})

	res, err := h(handlers.Context{Sys: g.sys, Actor: g.PlayerEntity(), Pending: g.pending}, cmd.Payload)
	if err != nil {
		cmdLog.WithError(err).Warn("Command rejected")
		return nil, err
	}
	if res.Msg != "" {
		g.Log.Add(res.Msg)
	}

	switch res.Outcome {
	case handlers.OutcomeTurn:
		event := EventAct
		if g.State.Is(StateShowTargeting) {
			event = EventConfirm
		}
		g.State.mustFire(ctx, event)
		g.pending = domain.NoEntity
		g.runTurn(ctx)

	case handlers.OutcomeTargeting:
		g.State.mustFire(ctx, EventTarget)
		g.pending = res.Item

	case handlers.OutcomeCancel:
		if g.State.Is(StateShowTargeting) {
			g.State.mustFire(ctx, EventCancel)
		}
		g.pending = domain.NoEntity

	case handlers.OutcomeDescend:
		if err := g.descend(ctx); err != nil {
			cmdLog.WithError(err).Error("Level change failed")
			return nil, err
		}
	}

	cmdLog.WithField("next_state", g.State.Current()).Debug("Command processed")

	view := g.View()
	if action == domain.ActionInit {
		view.Type = api.TypeInit
	}
	return view, nil
}

// runTurn - ход игрока и ответ монстров.
func (g *Game) runTurn(ctx context.Context) {
	g.Turn++
	g.Log.SetTick(g.Turn)

	if g.playerTick() {
		g.State.mustFire(ctx, EventDie)
		return
	}
	g.State.mustFire(ctx, EventEndPlayer)

	if g.monsterTurn() {
		g.State.mustFire(ctx, EventDie)
		return
	}
	g.State.mustFire(ctx, EventEndMonsters)
}
