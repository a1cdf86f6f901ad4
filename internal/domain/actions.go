package domain

import "strings"

// ActionType - Внутренний числовой идентификатор действия игрока
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionMove
	ActionWait
	ActionPickup
	ActionDrop
	ActionUse
	ActionTarget
	ActionCancel
	ActionDescend
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":    ActionInit,
	"MOVE":    ActionMove,
	"WAIT":    ActionWait,
	"PICKUP":  ActionPickup,
	"DROP":    ActionDrop,
	"USE":     ActionUse,
	"TARGET":  ActionTarget,
	"CANCEL":  ActionCancel,
	"DESCEND": ActionDescend,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionInit:    "INIT",
	ActionMove:    "MOVE",
	ActionWait:    "WAIT",
	ActionPickup:  "PICKUP",
	ActionDrop:    "DROP",
	ActionUse:     "USE",
	ActionTarget:  "TARGET",
	ActionCancel:  "CANCEL",
	ActionDescend: "DESCEND",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// ConsumesTurn - действие запускает тик систем.
// INIT, TARGET и CANCEL меняют только состояние интерфейса.
func (a ActionType) ConsumesTurn() bool {
	switch a {
	case ActionMove, ActionWait, ActionPickup, ActionDrop, ActionUse:
		return true
	default:
		return false
	}
}
