package systems

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/logger"
)

// MeleeCombat разрешает все намерения WantsToMelee тика.
// Урон не применяется сразу, а уходит в SufferDamage.
func MeleeCombat(ctx *Context) {
	rulesCfg := ctx.Cfg.Rules

	ctx.Intents.Melee.Each(func(id domain.EntityID, intent domain.MeleeIntent) {
		attacker := ctx.World.Get(id)
		if attacker == nil || !attacker.IsAlive() {
			return
		}
		target := ctx.World.Get(intent.Target)
		if target == nil {
			return
		}
		if target.Stats == nil {
			panic(fmt.Sprintf("melee target %s has no CombatStats", target.ID))
		}

		combatLogger := logger.Log.WithFields(logrus.Fields{
			"component":     "combat_system",
			"attacker_id":   attacker.ID,
			"attacker_name": attacker.Name,
			"target_id":     target.ID,
			"target_name":   target.Name,
		})

		if rulesCfg.EnforceAdjacency && attacker.Pos.DistanceTo(target.Pos) > rulesCfg.MeleeRange {
			combatLogger.Debug("Attack skipped: target out of reach.")
			return
		}
		if target.Stats.HP <= 0 {
			combatLogger.Debug("Attack ineffective: target is already dead.")
			return
		}

		damage := ctx.Melee.MeleeDamage(attacker.Stats, target.Stats)
		if damage <= 0 {
			ctx.narrate(fmt.Sprintf("%s is unable to hurt %s.", attacker.Name, target.Name))
		} else {
			ctx.Intents.PushDamage(target.ID, damage)
			ctx.narrate(fmt.Sprintf("%s hits %s, for %d hp.", attacker.Name, target.Name, damage))
		}

		combatLogger.WithFields(logrus.Fields{
			"power":   attacker.Stats.Power,
			"defense": target.Stats.Defense,
			"damage":  damage,
		}).Debug("Attack resolved.")
	})

	ctx.Intents.Melee.Clear()
}

// Damage применяет накопленный урон. Повторный вызов ничего не меняет.
func Damage(ctx *Context) {
	ctx.Intents.SufferDamage.Each(func(id domain.EntityID, amounts []int) {
		e := ctx.World.Get(id)
		if e == nil || e.Stats == nil {
			return
		}
		total := 0
		for _, a := range amounts {
			total += a
		}
		hpBefore := e.Stats.HP
		died := e.Stats.TakeDamage(total)

		logger.Log.WithFields(logrus.Fields{
			"component": "damage_system",
			"entity":    id,
			"damage":    total,
			"hp_before": hpBefore,
			"hp_after":  e.Stats.HP,
			"died":      died,
		}).Debug("Damage applied.")
	})

	ctx.Intents.SufferDamage.Clear()
}

// DeleteDead убирает погибших. Возвращает true, если погиб игрок:
// игрок не удаляется, игра переходит в GameOver.
func DeleteDead(ctx *Context) (playerDead bool) {
	ctx.World.Each(func(e *domain.Entity) {
		if e.Stats == nil || !e.Stats.IsDead() {
			return
		}
		if ctx.isPlayer(e.ID) {
			if !playerDead {
				ctx.narrate("You are dead")
			}
			playerDead = true
			return
		}

		ctx.narrate(fmt.Sprintf("%s is dead", e.Name))

		// Вещи покойного остаются на полу
		for _, item := range ctx.World.BackpackOf(e.ID) {
			item.Backpack = nil
			item.Place(e.Pos)
			ctx.Map.AddContent(e.Pos, item.ID)
		}

		if e.HasPos {
			if e.BlocksTile {
				ctx.Map.Unblock(e.Pos)
			}
			ctx.Map.RemoveContent(e.Pos, e.ID)
		}
		ctx.Intents.Forget(e.ID)
		ctx.World.Remove(e.ID)

		logger.Log.WithFields(logrus.Fields{
			"component": "combat_system",
			"entity":    e.ID,
			"name":      e.Name,
		}).Info("Entity died")
	})
	return playerDead
}
