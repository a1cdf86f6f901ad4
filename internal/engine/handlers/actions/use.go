package actions

import (
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine/handlers"
	"github.com/amixtum/dd2/internal/systems"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

// HandleUse обрабатывает команду USE - использование предмета из рюкзака.
// Дальнобойный предмет без цели переводит игру в режим прицеливания.
func HandleUse(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	item, err := ownedItem(ctx, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "use_handler",
		"actor_id":  ctx.Actor.ID,
		"item_name": item.Name,
	})

	if !item.Item.NeedsTarget() {
		ctx.Sys.Intents.UseItem.Set(ctx.Actor.ID, domain.UseItemIntent{Item: item.ID})
		log.Debug("Use intent queued")
		return handlers.TurnResult(), nil
	}

	if p.Target == nil {
		log.Debug("Ranged item selected, entering targeting")
		return handlers.Result{Outcome: handlers.OutcomeTargeting, Item: item.ID}, nil
	}

	return queueTargetedUse(ctx, item, domain.Position{X: p.Target.X, Y: p.Target.Y})
}

// HandleTarget подтверждает цель для предмета, выбранного командой USE.
func HandleTarget(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	item := ctx.Sys.World.Get(ctx.Pending)
	if item == nil || item.Item == nil {
		return handlers.Result{Outcome: handlers.OutcomeCancel}, nil
	}
	return queueTargetedUse(ctx, item, domain.Position{X: p.X, Y: p.Y})
}

// HandleCancel выходит из режима прицеливания без траты хода.
func HandleCancel(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{Outcome: handlers.OutcomeCancel}, nil
}

func queueTargetedUse(ctx handlers.Context, item *domain.Entity, target domain.Position) (handlers.Result, error) {
	check := systems.ValidateTarget(ctx.Sys, ctx.Actor, item, target)
	if !check.Valid {
		return handlers.Refuse(check.Message), nil
	}
	ctx.Sys.Intents.UseItem.Set(ctx.Actor.ID, domain.UseItemIntent{Item: item.ID, Target: &target})
	return handlers.TurnResult(), nil
}
