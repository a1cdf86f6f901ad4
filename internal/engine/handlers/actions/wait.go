package actions

import (
	"github.com/amixtum/dd2/internal/engine/handlers"
)

// HandleWait пропускает ход. Скорость при этом никуда не девается:
// тик систем идет, и разогнавшийся игрок продолжает скользить.
func HandleWait(ctx handlers.Context) (handlers.Result, error) {
	return handlers.TurnResult(), nil
}
