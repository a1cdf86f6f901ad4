package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/network"
	"github.com/amixtum/dd2/pkg/dice"
	"github.com/amixtum/dd2/pkg/logger"
)

var ErrTooManySessions = errors.New("too many sessions")

// ReplaySaver сохраняет ленту завершенной партии.
type ReplaySaver interface {
	Save(session *domain.ReplaySession) (string, error)
}

// Registry хранит активные сессии сервера.
type Registry struct {
	cfg *config.Config
	Hub *network.Broadcaster

	// Replays - необязательное хранилище лент. nil - ленты не пишутся.
	Replays ReplaySaver

	mu       sync.RWMutex
	sessions map[string]*Session
	next     atomic.Uint64
	wg       sync.WaitGroup
}

func NewRegistry(cfg *config.Config, hub *network.Broadcaster) *Registry {
	return &Registry{
		cfg:      cfg,
		Hub:      hub,
		sessions: make(map[string]*Session),
	}
}

// Start создает игру и запускает ее цикл. seed == 0 - сид из конфига,
// а если и он не задан, случайный.
// Сессия удаляется из реестра сама, когда цикл завершается.
func (r *Registry) Start(ctx context.Context, seed int64) (*Session, error) {
	if max := r.cfg.Server.MaxSessions; max > 0 && r.Len() >= max {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, max)
	}
	if seed == 0 {
		seed = r.cfg.Game.Seed
	}
	if seed == 0 {
		seed = dice.RandomSeed()
	}

	id := fmt.Sprintf("s%d", r.next.Add(1))
	g, err := NewGame(id, r.cfg, seed)
	if err != nil {
		return nil, fmt.Errorf("start session %s: %w", id, err)
	}
	s := newSession(id, g, seed, r.Hub, r.cfg.Server.IdleTimeout)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		s.Run(ctx)
		r.remove(id)
		r.saveReplay(s)
	}()

	logger.Log.WithFields(logrus.Fields{
		"component": "registry",
		"session":   id,
		"seed":      seed,
	}).Info("Session started")
	return s, nil
}

func (r *Registry) saveReplay(s *Session) {
	if r.Replays == nil {
		return
	}
	rec := s.Replay()
	if len(rec.Actions) == 0 {
		return
	}
	log := logger.Log.WithFields(logrus.Fields{
		"component": "registry",
		"session":   s.ID,
		"actions":   len(rec.Actions),
	})
	path, err := r.Replays.Save(&rec)
	if err != nil {
		log.WithError(err).Error("Failed to save replay")
		return
	}
	log.WithField("path", path).Info("Replay saved")
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List - сводки по всем живым сессиям, по возрастанию времени старта.
func (r *Registry) List(ctx context.Context) []SessionInfo {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		if info, ok := s.Info(ctx); ok {
			infos = append(infos, info)
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Started.Before(infos[j].Started)
	})
	return infos
}

// Wait блокируется, пока не завершатся все циклы сессий.
func (r *Registry) Wait() {
	r.wg.Wait()
}
