package actions

import (
	"fmt"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/engine/handlers"
)

// ownedItem ищет предмет в рюкзаке актора.
func ownedItem(ctx handlers.Context, rawID string) (*domain.Entity, error) {
	id, err := domain.ParseEntityID(rawID)
	if err != nil {
		return nil, err
	}
	item := ctx.Sys.World.Get(id)
	if item == nil || item.Item == nil || item.Backpack == nil || item.Backpack.Owner != ctx.Actor.ID {
		return nil, fmt.Errorf("item %s: %w", id, handlers.ErrItemNotOwned)
	}
	return item, nil
}
