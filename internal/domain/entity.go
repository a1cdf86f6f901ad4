package domain

// Entity - сущность игрового мира.
// Компоненты-указатели: если nil, значит свойство отсутствует.
type Entity struct {
	// Идентификация
	ID   EntityID `json:"id"`
	Name string   `json:"name"`

	// Pos не задан (HasPos=false) у предметов в рюкзаке.
	Pos    Position `json:"pos"`
	HasPos bool     `json:"hasPos"`

	// Флаги-маркеры
	BlocksTile bool `json:"blocksTile,omitempty"`
	Monster    bool `json:"monster,omitempty"`

	// Компоненты
	Render   *Renderable    `json:"render,omitempty"`
	Motion   *Motion        `json:"motion,omitempty"`
	Stats    *CombatStats   `json:"stats,omitempty"`
	Viewshed *Viewshed      `json:"-"`
	Item     *ItemComponent `json:"item,omitempty"`
	Backpack *InBackpack    `json:"backpack,omitempty"`
}

// Kind возвращает категорию сущности по ее ID.
func (e *Entity) Kind() EntityKind {
	return e.ID.Kind()
}

// IsAlive - у сущности есть боевые характеристики и положительные HP.
func (e *Entity) IsAlive() bool {
	return e.Stats != nil && e.Stats.HP > 0
}

// Place ставит сущность на карту.
func (e *Entity) Place(p Position) {
	e.Pos = p
	e.HasPos = true
}

// Lift убирает сущность с карты (например, при подборе).
func (e *Entity) Lift() {
	e.HasPos = false
}
