package systems

import (
	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/internal/pathing"
	"github.com/amixtum/dd2/internal/rules"
	"github.com/amixtum/dd2/pkg/dice"
)

// Narrator принимает строки игрового журнала.
type Narrator interface {
	Add(text string)
}

// Context - общие ресурсы тика. Системы получают их только отсюда.
type Context struct {
	World   *domain.World
	Map     *domain.Map
	Intents *domain.Intents

	Player    domain.EntityID
	PlayerPos *domain.Position

	RNG    *dice.RNG
	Cfg    *config.Config
	Finder *pathing.Finder
	Melee  rules.MeleeFormula
	Log    Narrator
}

// PlayerEntity возвращает игрока. Игрок существует всегда, пока идет игра.
func (ctx *Context) PlayerEntity() *domain.Entity {
	return ctx.World.MustGet(ctx.Player, "player resource")
}

func (ctx *Context) narrate(text string) {
	if ctx.Log != nil {
		ctx.Log.Add(text)
	}
}

func (ctx *Context) isPlayer(id domain.EntityID) bool {
	return id == ctx.Player
}
