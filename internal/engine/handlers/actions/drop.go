package actions

import (
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine/handlers"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

// HandleDrop обрабатывает команду DROP - выкладывает предмет из рюкзака на пол.
func HandleDrop(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	item, err := ownedItem(ctx, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	ctx.Sys.Intents.DropItem.Set(ctx.Actor.ID, domain.DropItemIntent{Item: item.ID})

	logger.Log.WithFields(logrus.Fields{
		"component": "drop_handler",
		"actor_id":  ctx.Actor.ID,
		"item_id":   item.ID,
		"item_name": item.Name,
	}).Debug("Drop intent queued")

	return handlers.TurnResult(), nil
}
