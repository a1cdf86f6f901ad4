package engine

import (
	"github.com/amixtum/dd2/internal/systems"
)

// stage - одна фаза тика.
type stage struct {
	name string
	run  func(ctx *systems.Context)
}

// Порядок фаз тика игрока. Каждая фаза видит результат предыдущей:
// урон применяется до подбора, баланс до движения, индекс после движения.
var playerStages = []stage{
	{"melee", systems.MeleeCombat},
	{"item_use", systems.ItemUse},
	{"damage", systems.Damage},
	{"pickup", systems.Pickup},
	{"drop", systems.Drop},
	{"balance", systems.Balance},
	{"fallover", systems.Fallover},
	{"movement", systems.Movement},
	{"fallover", systems.Fallover},
	{"damage", systems.Damage},
	{"visibility", systems.Visibility},
	{"map_index", systems.MapIndex},
}

// Ход монстров: решения ИИ, удары, урон.
var monsterStages = []stage{
	{"ai", systems.MonsterAI},
	{"melee", systems.MeleeCombat},
	{"damage", systems.Damage},
}

// Хвост каждого прохода после уборки трупов.
var refreshStages = []stage{
	{"visibility", systems.Visibility},
	{"map_index", systems.MapIndex},
}

func (g *Game) runStages(stages []stage) {
	for _, s := range stages {
		g.log.WithField("stage", s.name).Trace("Running stage")
		s.run(g.sys)
	}
}

// playerTick выполняет тик игрока. Возвращает true, если игрок погиб.
func (g *Game) playerTick() bool {
	g.runStages(playerStages)
	dead := systems.DeleteDead(g.sys)
	systems.MapIndex(g.sys)
	return dead
}

// monsterTurn выполняет ход монстров. Возвращает true, если игрок погиб.
func (g *Game) monsterTurn() bool {
	g.runStages(monsterStages)
	dead := systems.DeleteDead(g.sys)
	g.runStages(refreshStages)
	return dead
}

// refresh пересобирает индексы и зрение вне тика (старт, смена уровня).
func (g *Game) refresh() {
	systems.MapIndex(g.sys)
	systems.MarkViewshedsDirty(g.sys)
	systems.Visibility(g.sys)
}
