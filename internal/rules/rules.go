// Package rules содержит подменяемые игровые формулы.
// По умолчанию урон считается в Go, скрипт на Lua может переопределить формулу.
package rules

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/logger"
)

// MeleeFormula считает урон от удара в ближнем бою.
type MeleeFormula interface {
	MeleeDamage(attacker, defender *domain.CombatStats) int
}

// DefaultMelee - max(0, power - defense).
type DefaultMelee struct{}

func (DefaultMelee) MeleeDamage(attacker, defender *domain.CombatStats) int {
	return domain.MeleeDamage(attacker, defender)
}

const meleeFunc = "calc_melee_damage"

// LuaMelee вызывает calc_melee_damage(attacker, defender) из скрипта.
// VM не потокобезопасна: вызывать только из игрового цикла.
type LuaMelee struct {
	vm       *lua.LState
	fallback MeleeFormula
	log      *logrus.Entry
}

// LoadLuaMelee читает скрипт с диска.
func LoadLuaMelee(path string) (*LuaMelee, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read melee script %s: %w", path, err)
	}
	return NewLuaMelee(string(src))
}

// NewLuaMelee компилирует скрипт и проверяет, что функция объявлена.
func NewLuaMelee(src string) (*LuaMelee, error) {
	vm := lua.NewState(lua.Options{})
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load melee script: %w", err)
	}
	if vm.GetGlobal(meleeFunc) == lua.LNil {
		vm.Close()
		return nil, fmt.Errorf("melee script does not define %s", meleeFunc)
	}
	return &LuaMelee{
		vm:       vm,
		fallback: DefaultMelee{},
		log:      logger.For("rules"),
	}, nil
}

func (l *LuaMelee) statsTable(s *domain.CombatStats) *lua.LTable {
	t := l.vm.NewTable()
	t.RawSetString("hp", lua.LNumber(s.HP))
	t.RawSetString("max_hp", lua.LNumber(s.MaxHP))
	t.RawSetString("power", lua.LNumber(s.Power))
	t.RawSetString("defense", lua.LNumber(s.Defense))
	return t
}

// MeleeDamage при ошибке скрипта откатывается на формулу по умолчанию.
// Отрицательный результат обрезается до нуля.
func (l *LuaMelee) MeleeDamage(attacker, defender *domain.CombatStats) int {
	fn := l.vm.GetGlobal(meleeFunc)
	if err := l.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, l.statsTable(attacker), l.statsTable(defender)); err != nil {
		l.log.WithError(err).Error("Lua melee formula failed, using default")
		return l.fallback.MeleeDamage(attacker, defender)
	}

	result := l.vm.Get(-1)
	l.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		l.log.WithField("type", result.Type().String()).Error("Lua melee formula returned non-number")
		return l.fallback.MeleeDamage(attacker, defender)
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

func (l *LuaMelee) Close() {
	l.vm.Close()
}

// Load выбирает формулу: пустой путь означает формулу по умолчанию.
func Load(scriptPath string) (MeleeFormula, error) {
	if scriptPath == "" {
		return DefaultMelee{}, nil
	}
	return LoadLuaMelee(scriptPath)
}
