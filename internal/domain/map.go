package domain

import (
	"errors"

	"github.com/zyedidia/generic/mapset"
)

// Стоимость шагов для поиска пути. Диагональ дороже ортогонали,
// чтобы евклидова эвристика оставалась допустимой.
const (
	CardinalCost = 1.0
	DiagonalCost = 1.45
)

var ErrOutOfBounds = errors.New("out of bounds")

// Map - пространственная сетка уровня.
type Map struct {
	Width  int
	Height int
	Depth  int

	// Tiles хранится построчно: индекс = y*Width + x
	Tiles []TileType

	// Blocked пересобирается каждый тик: стены плюс блокирующие сущности.
	Blocked mapset.Set[Position]

	// TileContent: индекс клетки -> сущности на ней. Пересобирается каждый тик.
	TileContent [][]EntityID

	// Revealed только растет (память о карте), Visible заменяется каждый тик.
	Revealed mapset.Set[Position]
	Visible  mapset.Set[Position]
}

// NewMap создает карту, целиком заполненную стенами.
func NewMap(width, height, depth int) *Map {
	m := &Map{
		Width:       width,
		Height:      height,
		Depth:       depth,
		Tiles:       make([]TileType, width*height),
		Blocked:     mapset.New[Position](),
		TileContent: make([][]EntityID, width*height),
		Revealed:    mapset.New[Position](),
		Visible:     mapset.New[Position](),
	}
	for i := range m.Tiles {
		m.Tiles[i] = TileWall
	}
	return m
}

// Index переводит координату в индекс. Вызывающий обязан проверить границы.
func (m *Map) Index(x, y int) int {
	return y*m.Width + x
}

// Coord - обратное преобразование индекса в координату.
func (m *Map) Coord(idx int) Position {
	return Position{X: idx % m.Width, Y: idx / m.Width}
}

func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

func (m *Map) Contains(p Position) bool {
	return m.InBounds(p.X, p.Y)
}

// TileAt возвращает тип клетки. За границами карты - стена.
func (m *Map) TileAt(p Position) TileType {
	if !m.Contains(p) {
		return TileWall
	}
	return m.Tiles[m.Index(p.X, p.Y)]
}

// SetTile меняет тип клетки, молча игнорируя координаты вне карты.
func (m *Map) SetTile(p Position, t TileType) {
	if !m.Contains(p) {
		return
	}
	m.Tiles[m.Index(p.X, p.Y)] = t
}

// IsOpaque - блокирует ли клетка взгляд.
func (m *Map) IsOpaque(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return IsBlocking(m.Tiles[m.Index(x, y)])
}

// Count считает клетки заданного типа.
func (m *Map) Count(t TileType) int {
	n := 0
	for _, tile := range m.Tiles {
		if tile == t {
			n++
		}
	}
	return n
}

// Clone - независимая копия тайлов (для снимков генерации).
// Индексы и множества видимости не копируются.
func (m *Map) Clone() *Map {
	c := NewMap(m.Width, m.Height, m.Depth)
	copy(c.Tiles, m.Tiles)
	return c
}

// CopyTilesFrom заменяет содержимое карты тайлами src (вторая фаза смены
// уровня). Индексы, блокировки и видимость сбрасываются.
func (m *Map) CopyTilesFrom(src *Map) {
	m.Width = src.Width
	m.Height = src.Height
	m.Depth = src.Depth
	m.Tiles = make([]TileType, len(src.Tiles))
	copy(m.Tiles, src.Tiles)
	m.TileContent = make([][]EntityID, len(src.Tiles))
	m.Revealed = mapset.New[Position]()
	m.Visible = mapset.New[Position]()
	m.RecomputeBlocked()
}

// --- Blocked ---

// RecomputeBlocked очищает множество и заново заносит все стены.
// Блокирующие сущности добавляет система индексации.
func (m *Map) RecomputeBlocked() {
	m.Blocked = mapset.New[Position]()
	for idx, t := range m.Tiles {
		if IsBlocking(t) {
			m.Blocked.Put(m.Coord(idx))
		}
	}
}

// IsBlocked - координаты за картой всегда заблокированы.
func (m *Map) IsBlocked(p Position) bool {
	if !m.Contains(p) {
		return true
	}
	return m.Blocked.Has(p)
}

func (m *Map) Block(p Position) {
	if m.Contains(p) {
		m.Blocked.Put(p)
	}
}

// Unblock освобождает клетку, но стена остается заблокированной.
func (m *Map) Unblock(p Position) {
	if m.Contains(p) && !IsBlocking(m.TileAt(p)) {
		m.Blocked.Remove(p)
	}
}

// --- TileContent ---

func (m *Map) ClearTileContent() {
	for i := range m.TileContent {
		m.TileContent[i] = m.TileContent[i][:0]
	}
}

func (m *Map) AddContent(p Position, id EntityID) {
	if !m.Contains(p) {
		return
	}
	idx := m.Index(p.X, p.Y)
	m.TileContent[idx] = append(m.TileContent[idx], id)
}

// RemoveContent удаляет сущность из клетки (swap with last, порядок не важен)
func (m *Map) RemoveContent(p Position, id EntityID) {
	if !m.Contains(p) {
		return
	}
	idx := m.Index(p.X, p.Y)
	entities := m.TileContent[idx]
	for i, other := range entities {
		if other == id {
			lastIdx := len(entities) - 1
			entities[i] = entities[lastIdx]
			m.TileContent[idx] = entities[:lastIdx]
			return
		}
	}
}

// EntitiesAt возвращает список сущностей в конкретной клетке
func (m *Map) EntitiesAt(x, y int) []EntityID {
	if !m.InBounds(x, y) {
		return nil
	}
	return m.TileContent[m.Index(x, y)]
}

// MoveContent перемещает сущность в индексе клеток.
func (m *Map) MoveContent(id EntityID, from, to Position) error {
	if !m.Contains(to) {
		return ErrOutOfBounds
	}
	m.RemoveContent(from, id)
	m.AddContent(to, id)
	return nil
}

// --- Pathfinding adjacency ---

// Exit - соседняя клетка и стоимость шага в нее.
type Exit struct {
	Pos  Position
	Cost float64
}

var directions = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// AvailableExits возвращает до 8 соседей, исключая клетки за картой
// и заблокированные. Клетка allow пропускается через фильтр
// (цель поиска пути обычно занята самой целью).
func (m *Map) AvailableExits(p Position, allow Position) []Exit {
	exits := make([]Exit, 0, 8)
	for i, d := range directions {
		n := p.Shift(d[0], d[1])
		if !m.Contains(n) {
			continue
		}
		if n != allow && m.IsBlocked(n) {
			continue
		}
		cost := CardinalCost
		if i >= 4 {
			cost = DiagonalCost
		}
		exits = append(exits, Exit{Pos: n, Cost: cost})
	}
	return exits
}

// PathDistance - эвристика поиска пути (евклидово расстояние).
func PathDistance(a, b Position) float64 {
	return a.DistanceTo(b)
}
