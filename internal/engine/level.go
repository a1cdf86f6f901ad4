package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/dungeon"
)

const descendMessage = "You descend to the next level, and take a moment to heal."

// generate строит уровень depth в отдельной карте и переносит тайлы
// в живую карту игры. Сущности в этот момент карту не трогают.
func (g *Game) generate(depth int) (*dungeon.Result, error) {
	res, err := dungeon.Generate(g.cfg.MapGen.Builder, g.opts, g.rng.Derive(fmt.Sprintf("level-%d", depth)), depth)
	if err != nil {
		return nil, err
	}
	g.Map.CopyTilesFrom(res.Map)
	res.Map = g.Map
	g.History = res.History
	g.Builder = res.Builder
	// Кэш поиска пути держит ссылку на старую сетку
	g.sys.Finder = nil
	return res, nil
}

// populate расселяет монстров и предметы и пересчитывает зрение.
func (g *Game) populate(res *dungeon.Result) {
	monsters, items := g.spawner.Populate(g.World, res, g.rng)
	g.refresh()

	g.log.WithFields(logrus.Fields{
		"depth":    g.Map.Depth,
		"builder":  res.Builder,
		"monsters": monsters,
		"items":    items,
	}).Info("Level populated")
}

// descend - смена уровня: descend -> generate -> ready.
// Игрок и его рюкзак переживают переход, все остальное удаляется.
func (g *Game) descend(ctx context.Context) error {
	g.State.mustFire(ctx, EventDescend)

	keep := func(e *domain.Entity) bool {
		if e.ID == g.Player {
			return true
		}
		return e.Backpack != nil && e.Backpack.Owner == g.Player
	}
	removed := 0
	g.World.Each(func(e *domain.Entity) {
		if keep(e) {
			return
		}
		g.Intents.Forget(e.ID)
		g.World.Remove(e.ID)
		removed++
	})

	g.State.mustFire(ctx, EventGenerate)

	depth := g.Map.Depth + 1
	res, err := g.generate(depth)
	if err != nil {
		return fmt.Errorf("descend to level %d: %w", depth, err)
	}

	player := g.PlayerEntity()
	player.Place(res.Start)
	if player.Motion != nil {
		player.Motion.Reset()
	}
	g.playerPos = res.Start
	g.Map.Block(res.Start)
	g.Map.AddContent(res.Start, player.ID)

	g.populate(res)

	if st := player.Stats; st != nil {
		st.HP = max(st.HP, st.MaxHP/2)
	}
	g.Log.Add(descendMessage)

	g.State.mustFire(ctx, EventReady)

	g.log.WithFields(logrus.Fields{
		"depth":   depth,
		"removed": removed,
	}).Info("Player descended")
	return nil
}
