package domain

// TileType - классификация клетки карты.
type TileType uint8

const (
	TileWall TileType = iota
	TileFloor
	TileDownStairs
)

var tileToString = map[TileType]string{
	TileWall:       "WALL",
	TileFloor:      "FLOOR",
	TileDownStairs: "DOWN_STAIRS",
}

var tileToGlyph = map[TileType]rune{
	TileWall:       '#',
	TileFloor:      '.',
	TileDownStairs: '>',
}

func (t TileType) String() string {
	if val, ok := tileToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// Glyph - символ для отрисовки клетки.
func (t TileType) Glyph() rune {
	if val, ok := tileToGlyph[t]; ok {
		return val
	}
	return '?'
}

// IsBlocking - стены непроходимы и непрозрачны.
func IsBlocking(t TileType) bool {
	return t == TileWall
}

// IsWalkable - по полу и лестнице можно ходить.
func (t TileType) IsWalkable() bool {
	return !IsBlocking(t)
}
