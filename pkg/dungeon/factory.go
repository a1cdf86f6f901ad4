package dungeon

import (
	"github.com/amixtum/dd2/internal/domain"
)

// CreatePlayer создает игрока из шаблона и ставит его на карту.
func CreatePlayer(w *domain.World, m *domain.Map, tpl CreatureTemplate, at domain.Position) *domain.Entity {
	p := tpl.Entity(domain.RenderOrderPlayer)
	w.Spawn(domain.KindPlayer, m.Depth, p)
	p.Place(at)
	m.Block(at)
	m.AddContent(at, p.ID)
	return p
}
