package dungeon

import (
	"strings"

	"github.com/amixtum/dd2/internal/domain"
)

// Render рисует карту построчно символами тайлов. marks перекрывает
// тайлы (например, '@' на старте).
func Render(m *domain.Map, marks map[domain.Position]rune) string {
	var b strings.Builder
	b.Grow((m.Width + 1) * m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := domain.Position{X: x, Y: y}
			if r, ok := marks[p]; ok {
				b.WriteRune(r)
				continue
			}
			b.WriteRune(m.TileAt(p).Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
