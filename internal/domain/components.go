package domain

import "github.com/zyedidia/generic/mapset"

// --- КОМПОНЕНТЫ ---

// Renderable - Визуализация (Клиент)
type Renderable struct {
	Glyph       rune   `json:"glyph"`
	Color       string `json:"color"`
	RenderOrder int    `json:"renderOrder"` // 0 рисуется поверх остальных
}

// Motion - непрерывная часть движения: постоянная скорость и баланс.
// Импульсы за тик живут в очереди намерений, а не здесь.
type Motion struct {
	Velocity Vec2 `json:"velocity"`
	Balance  Vec2 `json:"balance"`
}

// Reset обнуляет скорость и баланс (сущность "упала и встала").
func (m *Motion) Reset() {
	m.Velocity = Vec2{}
	m.Balance = Vec2{}
}

// CombatStats - Характеристики боя. HP никогда не опускается ниже 0.
type CombatStats struct {
	MaxHP   int `json:"maxHp"`
	HP      int `json:"hp"`
	Defense int `json:"defense"`
	Power   int `json:"power"`
}

// Viewshed - набор видимых клеток и дальность зрения.
type Viewshed struct {
	Visible mapset.Set[Position] `json:"-"`
	Range   int                  `json:"range"`
	Dirty   bool                 `json:"-"`
}

// NewViewshed создает "грязный" viewshed, который пересчитается в ближайший тик.
func NewViewshed(rng int) *Viewshed {
	return &Viewshed{
		Visible: mapset.New[Position](),
		Range:   rng,
		Dirty:   true,
	}
}

// CanSee проверяет, видна ли клетка.
func (v *Viewshed) CanSee(p Position) bool {
	return v.Visible.Has(p)
}

// ItemComponent описывает предмет в игре.
// Любая Entity с этим компонентом становится предметом.
// Нулевое значение поля означает, что свойство отсутствует.
type ItemComponent struct {
	Consumable      bool `json:"consumable,omitempty"`      // исчезает после использования
	ProvidesHealing int  `json:"providesHealing,omitempty"` // сколько HP лечит
	Ranged          int  `json:"ranged,omitempty"`          // дальность прицеливания
	InflictsDamage  int  `json:"inflictsDamage,omitempty"`  // урон по цели
	AreaOfEffect    int  `json:"areaOfEffect,omitempty"`    // радиус взрыва
}

// NeedsTarget - предмет применяется по точке на карте.
func (i *ItemComponent) NeedsTarget() bool {
	return i.Ranged > 0
}

// InBackpack - отношение "предмет лежит в рюкзаке владельца".
type InBackpack struct {
	Owner EntityID `json:"owner"`
}
