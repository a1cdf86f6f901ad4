package handlers

import (
	"encoding/json"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/systems"
)

// Context передает хендлеру состояние игры.
// Хендлер только ставит намерения: сами системы запускает движок.
type Context struct {
	Sys   *systems.Context
	Actor *domain.Entity

	// Pending - предмет, для которого выбирается цель (режим прицеливания).
	Pending domain.EntityID
}

// Outcome говорит движку, что делать после хендлера.
type Outcome uint8

const (
	OutcomeNone      Outcome = iota // только перерисовать
	OutcomeTurn                     // запустить тик систем
	OutcomeTargeting                // войти в режим прицеливания
	OutcomeCancel                   // выйти из режима прицеливания
	OutcomeDescend                  // спуститься на следующий уровень
)

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в журнал напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст для журнала (отказ, подсказка)
	Outcome Outcome
	Item    domain.EntityID // предмет для режима прицеливания
}

// HandlerFunc - это контракт для любой команды (MOVE, USE, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// TurnResult - команда поставила намерение и тратит ход.
func TurnResult() Result {
	return Result{Outcome: OutcomeTurn}
}

// Refuse - команда не выполнена, ход не тратится.
func Refuse(msg string) Result {
	return Result{Msg: msg}
}
