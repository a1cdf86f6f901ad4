package engine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/pkg/logger"
)

// Состояния хода
const (
	StateAwaitingInput = "awaiting_input"
	StatePlayerTurn    = "player_turn"
	StateMonsterTurn   = "monster_turn"
	StateShowTargeting = "show_targeting"
	StateNextLevel     = "next_level"
	StateMapGeneration = "map_generation"
	StateGameOver      = "game_over"
)

// События автомата
const (
	EventAct         = "act"
	EventEndPlayer   = "end_player"
	EventEndMonsters = "end_monsters"
	EventTarget      = "target"
	EventCancel      = "cancel"
	EventConfirm     = "confirm"
	EventDescend     = "descend"
	EventGenerate    = "generate"
	EventReady       = "ready"
	EventDie         = "die"
)

// RunState - конечный автомат хода. Колбэки только логируют переходы:
// вызывать Event изнутри колбэка looplab/fsm не позволяет.
type RunState struct {
	fsm *fsm.FSM
}

func NewRunState() *RunState {
	log := logger.For("run_state")

	alive := []string{
		StateAwaitingInput, StatePlayerTurn, StateMonsterTurn,
		StateShowTargeting, StateNextLevel, StateMapGeneration,
	}

	f := fsm.NewFSM(
		StateAwaitingInput,
		fsm.Events{
			{Name: EventAct, Src: []string{StateAwaitingInput}, Dst: StatePlayerTurn},
			{Name: EventEndPlayer, Src: []string{StatePlayerTurn}, Dst: StateMonsterTurn},
			{Name: EventEndMonsters, Src: []string{StateMonsterTurn}, Dst: StateAwaitingInput},
			{Name: EventTarget, Src: []string{StateAwaitingInput}, Dst: StateShowTargeting},
			{Name: EventCancel, Src: []string{StateShowTargeting}, Dst: StateAwaitingInput},
			{Name: EventConfirm, Src: []string{StateShowTargeting}, Dst: StatePlayerTurn},
			{Name: EventDescend, Src: []string{StateAwaitingInput}, Dst: StateNextLevel},
			{Name: EventGenerate, Src: []string{StateNextLevel}, Dst: StateMapGeneration},
			{Name: EventReady, Src: []string{StateMapGeneration}, Dst: StateAwaitingInput},
			{Name: EventDie, Src: alive, Dst: StateGameOver},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				entry := log.WithFields(logrus.Fields{
					"event": e.Event,
					"from":  e.Src,
					"to":    e.Dst,
				})
				if e.Dst == StateGameOver {
					entry.Info("Game over")
					return
				}
				entry.Debug("Run state changed")
			},
		},
	)

	return &RunState{fsm: f}
}

func (r *RunState) Current() string {
	return r.fsm.Current()
}

func (r *RunState) Is(state string) bool {
	return r.fsm.Is(state)
}

func (r *RunState) Can(event string) bool {
	return r.fsm.Can(event)
}

// Fire выполняет переход. Недопустимое событие - ошибка программиста
// в движке, поэтому она оборачивается с текущим состоянием.
func (r *RunState) Fire(ctx context.Context, event string) error {
	from := r.fsm.Current()
	if err := r.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("run state %s -(%s)->: %w", from, event, err)
	}
	return nil
}

// mustFire - для переходов, которые движок гарантирует сам.
func (r *RunState) mustFire(ctx context.Context, event string) {
	if err := r.Fire(ctx, event); err != nil {
		panic(err.Error())
	}
}
