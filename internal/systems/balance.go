package systems

import (
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/logger"
)

// Balance - первая фаза движения: затухание скорости и баланса, сложение
// импульсов и наклон при смене направления. Очищает все импульсы.
func Balance(ctx *Context) {
	mv := ctx.Cfg.Movement
	log := logger.Log.WithField("component", "balance_system")

	ctx.World.Each(func(e *domain.Entity) {
		if e.Motion == nil {
			return
		}
		m := e.Motion
		m.Velocity = m.Velocity.Scale(mv.SpeedDamp)
		m.Balance = m.Balance.Scale(mv.BalanceDamp)

		if impulses, ok := ctx.Intents.Impulses.Get(e.ID); ok && len(impulses) > 0 {
			var sum domain.Vec2
			for _, v := range impulses {
				sum = sum.Add(v)
			}
			prev := m.Velocity
			m.Velocity = m.Velocity.Add(sum)

			if mag := m.Velocity.Mag(); mag > mv.MaxSpeed {
				m.Velocity = m.Velocity.ClampMag(mv.MaxSpeed)
			} else if mag <= mv.ZeroSpeed {
				m.Velocity = domain.Vec2{}
			}

			// Сущность кренится туда, куда двигалась, если резко сменила курс
			if prev.Mag() > mv.ZeroSpeed && sum.Mag() > 0 {
				ux, uy := prev.Sub(sum).Discrete()
				denom := 2 * prev.Mag() * sum.Mag()
				orth := (denom - prev.Dot(sum)) / denom
				m.Balance.X += float64(domain.Sign(uy)) * orth * mv.LeanFactor
				m.Balance.Y += float64(domain.Sign(ux)) * orth * mv.LeanFactor
			}
		}

		if bal := m.Balance.Mag(); bal >= mv.Fallover {
			ctx.Intents.RequestFallover(e.ID)
			log.WithFields(logrus.Fields{
				"entity":  e.ID,
				"balance": bal,
			}).Debug("Balance lost")
		} else if bal <= mv.ZeroBalance {
			m.Balance = domain.Vec2{}
		}
	})

	ctx.Intents.Impulses.Clear()
}

// Fallover гасит скорость и баланс упавших. Урон от падения
// (movement.fallover_damage) уходит в SufferDamage.
func Fallover(ctx *Context) {
	cost := ctx.Cfg.Movement.FalloverDamage

	ctx.Intents.Fallover.Each(func(id domain.EntityID, _ struct{}) {
		e := ctx.World.Get(id)
		if e == nil || e.Motion == nil {
			return
		}
		e.Motion.Reset()
		if cost > 0 && e.Stats != nil {
			ctx.Intents.PushDamage(id, cost)
		}
		if ctx.isPlayer(id) {
			ctx.narrate("You lose your balance and fall over.")
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "balance_system",
			"entity":    id,
		}).Debug("Entity fell over")
	})

	ctx.Intents.Fallover.Clear()
}
