package domain

import "encoding/json"

// ReplayAction - одна принятая команда игрока.
type ReplayAction struct {
	Tick    int             `json:"tick"`
	Action  ActionType      `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ReplaySession - полная запись партии. Сид и лента команд однозначно
// воспроизводят игру: генерация и тики детерминированы.
type ReplaySession struct {
	Seed      int64          `json:"seed"`
	Timestamp int64          `json:"timestamp"`
	Depth     int            `json:"depth"` // глубина на момент окончания записи
	Actions   []ReplayAction `json:"actions"`
}

// Record дописывает команду в ленту.
func (r *ReplaySession) Record(tick int, action ActionType, payload json.RawMessage) {
	r.Actions = append(r.Actions, ReplayAction{
		Tick:    tick,
		Action:  action,
		Payload: payload,
	})
}
