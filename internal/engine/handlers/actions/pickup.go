package actions

import (
	"github.com/amixtum/dd2/internal/engine/handlers"
	"github.com/amixtum/dd2/internal/systems"
)

// HandlePickup обрабатывает команду PICKUP - подбор предмета под ногами.
// Пустая клетка хода не тратит (сообщение пишет сама система).
func HandlePickup(ctx handlers.Context) (handlers.Result, error) {
	if !systems.GetItem(ctx.Sys) {
		return handlers.EmptyResult(), nil
	}
	return handlers.TurnResult(), nil
}
