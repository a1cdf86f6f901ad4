package systems

import (
	"github.com/amixtum/dd2/internal/domain"
)

// MapIndex пересобирает Blocked (стены плюс блокирующие сущности)
// и TileContent по текущим позициям.
func MapIndex(ctx *Context) {
	m := ctx.Map
	m.RecomputeBlocked()
	m.ClearTileContent()

	ctx.World.Each(func(e *domain.Entity) {
		if !e.HasPos {
			return
		}
		if e.BlocksTile {
			m.Block(e.Pos)
		}
		m.AddContent(e.Pos, e.ID)
	})
}
