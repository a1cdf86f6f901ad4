package systems

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/logger"
)

// --- PICKUP ---

// GetItem ставит намерение подобрать первый предмет под игроком.
// Возвращает false, если подбирать нечего: ход в этом случае не тратится.
func GetItem(ctx *Context) bool {
	player := ctx.PlayerEntity()
	for _, id := range ctx.Map.EntitiesAt(player.Pos.X, player.Pos.Y) {
		e := ctx.World.Get(id)
		if e == nil || e.Item == nil || !e.HasPos {
			continue
		}
		ctx.Intents.Pickup.Set(player.ID, domain.PickupIntent{Item: e.ID, CollectedBy: player.ID})
		return true
	}
	ctx.narrate("There is nothing here to pickup")
	return false
}

// Pickup переносит предметы с пола в рюкзак.
func Pickup(ctx *Context) {
	ctx.Intents.Pickup.Each(func(_ domain.EntityID, intent domain.PickupIntent) {
		item := ctx.World.Get(intent.Item)
		if item == nil || item.Item == nil || !item.HasPos {
			return
		}
		ctx.Map.RemoveContent(item.Pos, item.ID)
		item.Lift()
		item.Backpack = &domain.InBackpack{Owner: intent.CollectedBy}

		if ctx.isPlayer(intent.CollectedBy) {
			ctx.narrate(fmt.Sprintf("You pick up the %s.", item.Name))
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "inventory_system",
			"item":      item.ID,
			"owner":     intent.CollectedBy,
		}).Debug("Item picked up")
	})

	ctx.Intents.Pickup.Clear()
}

// --- DROP ---

// Drop выкладывает предмет из рюкзака на клетку владельца.
func Drop(ctx *Context) {
	ctx.Intents.DropItem.Each(func(id domain.EntityID, intent domain.DropItemIntent) {
		owner := ctx.World.Get(id)
		item := ctx.World.Get(intent.Item)
		if owner == nil || item == nil || !owner.HasPos {
			return
		}
		if item.Backpack == nil || item.Backpack.Owner != id {
			return
		}
		item.Backpack = nil
		item.Place(owner.Pos)
		ctx.Map.AddContent(owner.Pos, item.ID)

		if ctx.isPlayer(id) {
			ctx.narrate(fmt.Sprintf("You drop the %s.", item.Name))
		}
	})

	ctx.Intents.DropItem.Clear()
}

// --- USE ---

// ItemUse применяет предметы. Лечение без цели действует на самого
// пользователя, урон требует клетки-цели. Расходник исчезает, только если
// эффект хоть на кого-то подействовал.
func ItemUse(ctx *Context) {
	ctx.Intents.UseItem.Each(func(id domain.EntityID, intent domain.UseItemIntent) {
		user := ctx.World.Get(id)
		item := ctx.World.Get(intent.Item)
		if user == nil || item == nil {
			return
		}
		if item.Item == nil {
			panic(fmt.Sprintf("use intent refers to %s which is not an item", item.ID))
		}
		comp := item.Item

		useLogger := logger.Log.WithFields(logrus.Fields{
			"component": "item_use_system",
			"user":      user.ID,
			"item":      item.Name,
		})

		targets := []*domain.Entity{user}
		if intent.Target != nil {
			targets = ctx.targetsAround(*intent.Target, comp.AreaOfEffect)
		}

		used := false
		if comp.ProvidesHealing > 0 {
			for _, t := range targets {
				if t.Stats == nil {
					continue
				}
				t.Stats.Heal(comp.ProvidesHealing)
				used = true
				if ctx.isPlayer(id) {
					ctx.narrate(fmt.Sprintf("You drink the %s, healing %d hp.", item.Name, comp.ProvidesHealing))
				}
			}
		}
		if comp.InflictsDamage > 0 && intent.Target != nil {
			for _, t := range targets {
				if t.Stats == nil {
					continue
				}
				ctx.Intents.PushDamage(t.ID, comp.InflictsDamage)
				used = true
				if ctx.isPlayer(id) {
					ctx.narrate(fmt.Sprintf("You use %s on %s, inflicting %d hp.", item.Name, t.Name, comp.InflictsDamage))
				}
			}
		}

		useLogger.WithFields(logrus.Fields{
			"targets": len(targets),
			"used":    used,
		}).Debug("Item use resolved")

		if used && comp.Consumable {
			if item.HasPos {
				ctx.Map.RemoveContent(item.Pos, item.ID)
			}
			ctx.Intents.Forget(item.ID)
			ctx.World.Remove(item.ID)
		}
	})

	ctx.Intents.UseItem.Clear()
}

// targetsAround собирает сущности на клетке-цели или, при radius > 0,
// во всей видимой из цели области. Обход построчный, без зависимости от
// порядка итерации множества.
func (ctx *Context) targetsAround(target domain.Position, radius int) []*domain.Entity {
	var out []*domain.Entity
	collect := func(p domain.Position) {
		for _, id := range ctx.Map.EntitiesAt(p.X, p.Y) {
			if e := ctx.World.Get(id); e != nil {
				out = append(out, e)
			}
		}
	}

	if radius <= 0 {
		if ctx.Map.Contains(target) {
			collect(target)
		}
		return out
	}

	area := ComputeVisibleTiles(ctx.Map, target, radius)
	for y := target.Y - radius; y <= target.Y+radius; y++ {
		for x := target.X - radius; x <= target.X+radius; x++ {
			p := domain.Position{X: x, Y: y}
			if area.Has(p) {
				collect(p)
			}
		}
	}
	return out
}
