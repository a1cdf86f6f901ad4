package systems

import (
	"github.com/amixtum/dd2/internal/domain"
)

// Visibility пересчитывает "грязные" viewshed. Для игрока видимое
// добавляется в Revealed и заменяет Map.Visible.
func Visibility(ctx *Context) {
	ctx.World.Each(func(e *domain.Entity) {
		if e.Viewshed == nil || !e.HasPos || !e.Viewshed.Dirty {
			return
		}
		vs := e.Viewshed
		vs.Visible = ComputeVisibleTiles(ctx.Map, e.Pos, vs.Range)
		vs.Dirty = false

		if !ctx.isPlayer(e.ID) {
			return
		}
		visible := ctx.Map.Visible
		visible.Clear()
		vs.Visible.Each(func(p domain.Position) {
			visible.Put(p)
			ctx.Map.Revealed.Put(p)
		})
	})
}

// MarkViewshedsDirty заставляет пересчитать зрение всем (после движения или смены уровня).
func MarkViewshedsDirty(ctx *Context) {
	ctx.World.Each(func(e *domain.Entity) {
		if e.Viewshed != nil {
			e.Viewshed.Dirty = true
		}
	})
}
