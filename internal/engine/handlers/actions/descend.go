package actions

import (
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine/handlers"
)

// HandleDescend проверяет, что игрок стоит на лестнице вниз.
// Сам переход выполняет движок.
func HandleDescend(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Sys.Map.TileAt(ctx.Actor.Pos) != domain.TileDownStairs {
		return handlers.Refuse("There is no way down from here"), nil
	}
	return handlers.Result{Outcome: handlers.OutcomeDescend}, nil
}
