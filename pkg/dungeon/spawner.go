package dungeon

import (
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/dice"
	"github.com/amixtum/dd2/pkg/logger"
)

// Spawner заселяет готовый уровень монстрами и предметами.
type Spawner struct {
	tpl         *Templates
	maxMonsters int
	maxItems    int
}

func NewSpawner(tpl *Templates, maxMonsters, maxItems int) *Spawner {
	return &Spawner{tpl: tpl, maxMonsters: maxMonsters, maxItems: maxItems}
}

func (s *Spawner) Templates() *Templates {
	return s.tpl
}

// Populate обходит области спавна уровня. На стартовой клетке никто не появляется.
func (s *Spawner) Populate(w *domain.World, res *Result, rng *dice.RNG) (monsters, items int) {
	for _, region := range res.SpawnRegions {
		m, i := s.spawnRegion(w, res.Map, region, res.Start, rng)
		monsters += m
		items += i
	}

	logger.For("spawner").WithFields(logrus.Fields{
		"depth":    res.Map.Depth,
		"regions":  len(res.SpawnRegions),
		"monsters": monsters,
		"items":    items,
	}).Debug("Level populated")
	return monsters, items
}

func (s *Spawner) spawnRegion(w *domain.World, m *domain.Map, region []domain.Position, start domain.Position, rng *dice.RNG) (int, int) {
	numMonsters := rng.RollDice(1, s.maxMonsters+2) - 3
	numItems := rng.RollDice(1, s.maxItems+2) - 3

	monsterPoints := pickPoints(region, numMonsters, start, rng)
	itemPoints := pickPoints(region, numItems, start, rng)

	for _, p := range monsterPoints {
		s.spawnMonster(w, m, p, rng)
	}
	for _, p := range itemPoints {
		s.spawnItem(w, m, p, rng)
	}
	return len(monsterPoints), len(itemPoints)
}

// pickPoints выбирает до n различных клеток. Повторный бросок в ту же
// клетку просто уменьшает итоговое число.
func pickPoints(region []domain.Position, n int, start domain.Position, rng *dice.RNG) []domain.Position {
	if n <= 0 || len(region) == 0 {
		return nil
	}
	seen := mapset.New[domain.Position]()
	var out []domain.Position
	for i := 0; i < n; i++ {
		p := region[rng.RollDice(1, len(region))-1]
		if p == start || seen.Has(p) {
			continue
		}
		seen.Put(p)
		out = append(out, p)
	}
	return out
}

func (s *Spawner) spawnMonster(w *domain.World, m *domain.Map, at domain.Position, rng *dice.RNG) *domain.Entity {
	tpl := s.tpl.Monsters[rng.RollDice(1, len(s.tpl.Monsters))-1]
	e := tpl.Entity(domain.RenderOrderMonster)
	e.Monster = true
	w.Spawn(domain.KindMonster, m.Depth, e)
	e.Place(at)
	m.Block(at)
	m.AddContent(at, e.ID)
	return e
}

func (s *Spawner) spawnItem(w *domain.World, m *domain.Map, at domain.Position, rng *dice.RNG) *domain.Entity {
	tpl := s.tpl.Items[rng.RollDice(1, len(s.tpl.Items))-1]
	e := tpl.Entity()
	w.Spawn(domain.KindItem, m.Depth, e)
	e.Place(at)
	m.AddContent(at, e.ID)
	return e
}
