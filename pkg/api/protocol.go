package api

import (
	"encoding/json"
)

// Типы ответов сервера
const (
	TypeInit     = "INIT"
	TypeUpdate   = "UPDATE"
	TypeError    = "ERROR"
	TypeGameOver = "GAME_OVER"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Он представляет собой полный "снимок" мира, видимого игроку.
// Отправляется после каждой команды.
type ServerResponse struct {
	// Type тип сообщения: INIT, UPDATE, ERROR или GAME_OVER.
	Type string `json:"type"`

	// Session идентификатор игровой сессии (нужен зрителям /watch).
	Session string `json:"session,omitempty"`

	// Tick номер хода игрока. Увеличивается с каждым действием, тратящим ход.
	Tick int `json:"tick"`

	// Depth глубина текущего уровня, начиная с 1.
	Depth int `json:"depth"`

	// State состояние автомата хода (awaiting_input, show_targeting, game_over ...).
	// Клиент принимает ввод только в awaiting_input и show_targeting.
	State string `json:"state"`

	// MyEntityID ID сущности игрока.
	MyEntityID string `json:"myEntityId,omitempty"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map срез всех видимых и/или исследованных тайлов.
	Map []TileView `json:"map,omitempty"`

	// Entities срез всех видимых сущностей, отсортированный по порядку отрисовки.
	Entities []EntityView `json:"entities,omitempty"`

	// Inventory содержимое рюкзака игрока.
	Inventory []ItemView `json:"inventory,omitempty"`

	// Targeting клетки, доступные для выбора цели (только в show_targeting).
	Targeting *TargetingView `json:"targeting,omitempty"`

	// Logs срез новых сообщений, сгенерированных с прошлого ответа.
	Logs []LogEntry `json:"logs,omitempty"`

	// Error текст ошибки для Type == ERROR.
	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// TileView это DTO для одного тайла карты.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Symbol - визуальное представление тайла ("#" стена, "." пол, ">" лестница).
	Symbol string `json:"symbol"`

	// IsWall true, если тайл является непроходимым препятствием.
	IsWall bool `json:"isWall"`

	// IsVisible true, если тайл находится в текущем поле зрения. Рендерится ярко.
	IsVisible bool `json:"isVisible"`

	// IsExplored true, если тайл когда-либо был увиден. Используется для "тумана войны".
	// Если IsVisible=false, а IsExplored=true, рендерится тускло.
	IsExplored bool `json:"isExplored"`
}

// Point - координата на карте.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID   string `json:"id"`
	Type string `json:"type"` // PLAYER, MONSTER, ITEM
	Name string `json:"name"`

	Pos Point `json:"pos"`

	Render struct {
		Symbol string `json:"symbol"`
		Color  string `json:"color"`
		Order  int    `json:"order"` // 0 рисуется поверх остальных
	} `json:"render"`

	// Stats характеристики сущности. Поле отсутствует у предметов.
	Stats *StatsView `json:"stats,omitempty"`

	// Motion скорость и баланс (только для игрока).
	Motion *MotionView `json:"motion,omitempty"`
}

// StatsView это DTO для боевых характеристик.
type StatsView struct {
	HP      int  `json:"hp"`
	MaxHP   int  `json:"maxHp"`
	Power   int  `json:"power"`
	Defense int  `json:"defense"`
	IsDead  bool `json:"isDead"`
}

// MotionView - непрерывная часть движения для индикатора баланса.
type MotionView struct {
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	BalanceX float64 `json:"balanceX"`
	BalanceY float64 `json:"balanceY"`
}

// ItemView представляет предмет в рюкзаке.
type ItemView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Color      string `json:"color"`
	Consumable bool   `json:"consumable,omitempty"`
	Heal       int    `json:"heal,omitempty"`
	Range      int    `json:"range,omitempty"`
	Damage     int    `json:"damage,omitempty"`
	Radius     int    `json:"radius,omitempty"`
}

// TargetingView - режим выбора цели для дальнобойного предмета.
type TargetingView struct {
	ItemID string  `json:"itemId"`
	Range  int     `json:"range"`
	Cells  []Point `json:"cells"`
}

// LogEntry представляет одну запись в игровом журнале.
type LogEntry struct {
	Tick int    `json:"tick"`
	Text string `json:"text"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия: INIT, MOVE, WAIT, PICKUP, DROP, USE, TARGET, CANCEL, DESCEND.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload используется для MOVE.
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}

// PositionPayload используется для TARGET: точка на карте.
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ItemPayload используется для действий с предметами (DROP, USE).
// Target можно передать сразу, минуя режим прицеливания.
type ItemPayload struct {
	ItemID string           `json:"itemId"`
	Target *PositionPayload `json:"target,omitempty"`
}
