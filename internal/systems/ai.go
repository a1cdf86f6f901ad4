package systems

import (
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/pathing"
	"github.com/amixtum/dd2/pkg/logger"
)

// MonsterAI решает ход каждого монстра: удар по игроку рядом, шаг по A*
// к игроку в поле зрения, иначе ожидание.
func MonsterAI(ctx *Context) {
	player := ctx.PlayerEntity()
	if !player.IsAlive() || !player.HasPos {
		return
	}
	target := player.Pos
	if ctx.Finder == nil {
		ctx.Finder = pathing.NewFinder(ctx.Map)
	}

	ctx.World.Each(func(npc *domain.Entity) {
		if !npc.Monster || !npc.HasPos || !npc.IsAlive() || npc.Viewshed == nil {
			return
		}
		aiLogger := logger.Log.WithFields(logrus.Fields{
			"component": "ai_system",
			"npc_id":    npc.ID,
			"npc_name":  npc.Name,
		})

		dist := npc.Pos.DistanceTo(target)
		if dist < ctx.Cfg.Rules.MeleeRange {
			ctx.Intents.Melee.Set(npc.ID, domain.MeleeIntent{Target: player.ID})
			aiLogger.Debug("Target in attack range. Action: ATTACK")
			return
		}

		if !npc.Viewshed.CanSee(target) {
			return
		}

		path := ctx.Finder.AStar(npc.Pos, target)
		if len(path) <= 1 {
			aiLogger.Debug("Path is blocked. Action: WAIT")
			return
		}

		next := path[1]
		if next == target {
			return
		}
		ctx.Map.Unblock(npc.Pos)
		_ = ctx.Map.MoveContent(npc.ID, npc.Pos, next)
		npc.Pos = next
		ctx.Map.Block(next)
		npc.Viewshed.Dirty = true

		aiLogger.WithFields(logrus.Fields{
			"to":       next,
			"distance": dist,
		}).Debug("Path found. Action: MOVE")
	})
}
