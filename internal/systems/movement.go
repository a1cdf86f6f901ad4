package systems

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/logger"
)

// Movement переводит скорость в шаг по сетке: не больше одной клетки по
// каждой оси за тик. Быстрые сущности ходят первыми.
func Movement(ctx *Context) {
	log := logger.Log.WithField("component", "movement_system")

	var movers []*domain.Entity
	ctx.World.Each(func(e *domain.Entity) {
		if e.HasPos && e.Motion != nil {
			movers = append(movers, e)
		}
	})

	sort.SliceStable(movers, func(i, j int) bool {
		si := math.Round(movers[i].Motion.Velocity.Mag())
		sj := math.Round(movers[j].Motion.Velocity.Mag())
		if si != sj {
			return si > sj
		}
		return movers[i].ID < movers[j].ID
	})

	for _, e := range movers {
		v := e.Motion.Velocity
		next := domain.Position{
			X: stepAxis(e.Pos.X, v.X),
			Y: stepAxis(e.Pos.Y, v.Y),
		}
		if next == e.Pos {
			continue
		}

		entryLog := log.WithFields(logrus.Fields{
			"entity": e.ID,
			"from":   e.Pos,
			"to":     next,
		})

		// Край карты: падение, остальные сущности ходят дальше
		if !ctx.Map.Contains(next) {
			ctx.Intents.RequestFallover(e.ID)
			entryLog.Debug("Ran off the map edge")
			continue
		}
		if ctx.Map.IsBlocked(next) {
			ctx.Intents.RequestFallover(e.ID)
			if ctx.isPlayer(e.ID) {
				ctx.narrate("You crash into something and fall over.")
			}
			entryLog.Debug("Collided with blocked tile")
			continue
		}

		if e.BlocksTile {
			ctx.Map.Unblock(e.Pos)
			ctx.Map.Block(next)
		}
		e.Pos = next
		if e.Viewshed != nil {
			e.Viewshed.Dirty = true
		}
		if ctx.isPlayer(e.ID) && ctx.PlayerPos != nil {
			*ctx.PlayerPos = next
		}
		entryLog.Debug("Moved")
	}
}

// stepAxis - round(clamp(p+v, p-1, p+1)).
func stepAxis(p int, v float64) int {
	f := float64(p)
	return int(math.Round(math.Max(f-1, math.Min(f+1, f+v))))
}

// PlayerStep превращает ввод направления в импульс. Если в соседней клетке
// по направлению стоит враждебное существо, вместо импульса ставится удар.
// Возвращает true, если ввод что-то сделал.
func PlayerStep(ctx *Context, dx, dy int) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	player := ctx.PlayerEntity()

	target := player.Pos.Shift(dx, dy)
	for _, id := range ctx.Map.EntitiesAt(target.X, target.Y) {
		other := ctx.World.Get(id)
		if other == nil || !other.Monster || other.Stats == nil {
			continue
		}
		ctx.Intents.Melee.Set(player.ID, domain.MeleeIntent{Target: id})
		return true
	}

	impulse := domain.V(float64(dx), float64(dy)).Normalize().Scale(ctx.Cfg.Movement.PlayerInst)
	ctx.Intents.PushImpulse(player.ID, impulse)
	return true
}
