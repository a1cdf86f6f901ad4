package actions

import (
	"github.com/amixtum/dd2/internal/engine/handlers"
	"github.com/amixtum/dd2/internal/systems"
	"github.com/amixtum/dd2/pkg/api"
)

// HandleMove превращает направление в импульс или удар по соседу.
func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	if !systems.PlayerStep(ctx.Sys, p.Dx, p.Dy) {
		return handlers.EmptyResult(), nil
	}
	return handlers.TurnResult(), nil
}
