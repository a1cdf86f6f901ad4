package engine

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/network"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

var ErrSessionClosed = errors.New("session closed")

// Request - команда клиента и канал для ответа.
type Request struct {
	Cmd   api.ClientCommand
	Reply chan Reply
}

// Reply - снимок мира или причина отказа.
type Reply struct {
	View *api.ServerResponse
	Err  error
}

// Session - одна партия в собственной горутине. Все обращения к Game
// идут через канал команд, поэтому Game не нуждается в блокировках.
type Session struct {
	ID   string
	Seed int64

	game    *Game
	hub     *network.Broadcaster
	idle    time.Duration
	replay  domain.ReplaySession
	started time.Time

	commands chan Request
	done     chan struct{}
	info     chan chan SessionInfo
	log      *logrus.Entry
}

// SessionInfo - сводка для /debug/sessions.
type SessionInfo struct {
	ID       string    `json:"id"`
	Seed     int64     `json:"seed"`
	Depth    int       `json:"depth"`
	Tick     int       `json:"tick"`
	State    string    `json:"state"`
	Builder  string    `json:"builder"`
	Actions  int       `json:"actions"`
	Watchers int       `json:"watchers"`
	Started  time.Time `json:"started"`
}

func newSession(id string, g *Game, seed int64, hub *network.Broadcaster, idle time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:       id,
		Seed:     seed,
		game:     g,
		hub:      hub,
		idle:     idle,
		replay:   domain.ReplaySession{Seed: seed, Timestamp: now.Unix()},
		started:  now,
		commands: make(chan Request, 16),
		done:     make(chan struct{}),
		info:     make(chan chan SessionInfo),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "session",
			"session":   id,
		}),
	}
}

// Run запускает цикл сессии. Возвращается при отмене ctx или простое
// дольше idle. Игра закрывается здесь же.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	defer s.game.Close()

	s.log.WithField("seed", s.Seed).Info("Session loop started")

	var timeout <-chan time.Time
	var timer *time.Timer
	if s.idle > 0 {
		timer = time.NewTimer(s.idle)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Session stopped")
			return

		case <-timeout:
			s.log.WithField("idle", s.idle).Warn("Session timed out")
			return

		case reply := <-s.info:
			reply <- s.snapshot()

		case req := <-s.commands:
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.idle)
			}
			req.Reply <- s.execute(ctx, req.Cmd)
		}
	}
}

func (s *Session) execute(ctx context.Context, cmd api.ClientCommand) Reply {
	view, err := s.game.Handle(ctx, cmd)
	if err != nil {
		return Reply{Err: err}
	}
	s.replay.Record(s.game.Turn, domain.ParseAction(cmd.Action), cmd.Payload)
	if s.hub != nil {
		s.hub.Publish(s.ID, *view)
	}
	return Reply{View: view}
}

func (s *Session) snapshot() SessionInfo {
	info := SessionInfo{
		ID:      s.ID,
		Seed:    s.Seed,
		Depth:   s.game.Map.Depth,
		Tick:    s.game.Turn,
		State:   s.game.State.Current(),
		Builder: s.game.Builder,
		Actions: len(s.replay.Actions),
		Started: s.started,
	}
	if s.hub != nil {
		info.Watchers = s.hub.Watchers(s.ID)
	}
	return info
}

// Submit отправляет команду в цикл сессии и ждет ответа.
func (s *Session) Submit(ctx context.Context, cmd api.ClientCommand) (*api.ServerResponse, error) {
	req := Request{Cmd: cmd, Reply: make(chan Reply, 1)}
	select {
	case s.commands <- req:
	case <-s.done:
		return nil, ErrSessionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-req.Reply:
		return r.View, r.Err
	case <-s.done:
		return nil, ErrSessionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Info возвращает сводку о сессии. Для закрытой сессии ok == false.
func (s *Session) Info(ctx context.Context) (SessionInfo, bool) {
	reply := make(chan SessionInfo, 1)
	select {
	case s.info <- reply:
	case <-s.done:
		return SessionInfo{}, false
	case <-ctx.Done():
		return SessionInfo{}, false
	}
	select {
	case info := <-reply:
		return info, true
	case <-s.done:
		return SessionInfo{}, false
	case <-ctx.Done():
		return SessionInfo{}, false
	}
}

// Done закрывается после выхода из Run.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Replay возвращает копию ленты команд. Вызывать после Done.
func (s *Session) Replay() domain.ReplaySession {
	r := s.replay
	r.Depth = s.game.Map.Depth
	r.Actions = append([]domain.ReplayAction(nil), s.replay.Actions...)
	return r
}
