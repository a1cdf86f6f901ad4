package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

// GameLog - журнал игры: только дописывается, порядок сохраняется.
type GameLog struct {
	entries []api.LogEntry
	tick    int
	session string
}

func NewGameLog(session string) *GameLog {
	return &GameLog{session: session}
}

// SetTick задает номер хода для следующих записей.
func (l *GameLog) SetTick(tick int) {
	l.tick = tick
}

// Add добавляет запись в журнал и дублирует ее в logrus.
func (l *GameLog) Add(text string) {
	l.entries = append(l.entries, api.LogEntry{Tick: l.tick, Text: text})
	logger.Log.WithFields(logrus.Fields{
		"session":   l.session,
		"component": "game_log",
		"tick":      l.tick,
	}).Info(text)
}

// Since возвращает записи начиная с n-й (курсор для отправки только новых).
func (l *GameLog) Since(n int) []api.LogEntry {
	if n < 0 {
		n = 0
	}
	if n >= len(l.entries) {
		return nil
	}
	out := make([]api.LogEntry, len(l.entries)-n)
	copy(out, l.entries[n:])
	return out
}

func (l *GameLog) Len() int {
	return len(l.entries)
}

// Last - последняя запись или "" для пустого журнала.
func (l *GameLog) Last() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1].Text
}
