package dungeon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/dice"
)

func TestDefaultTemplates(t *testing.T) {
	tpl, err := DefaultTemplates()
	require.NoError(t, err)

	assert.Equal(t, 30, tpl.Player.HP)
	assert.Equal(t, 2, tpl.Player.Defense)
	assert.Equal(t, 5, tpl.Player.Power)
	assert.Equal(t, 8, tpl.Player.View)

	require.Len(t, tpl.Monsters, 2)
	assert.Equal(t, "Orc", tpl.Monsters[0].Name)
	assert.Equal(t, 16, tpl.Monsters[1].HP)

	names := map[string]ItemTemplate{}
	for _, it := range tpl.Items {
		names[it.Name] = it
	}
	assert.Equal(t, 8, names["Health Potion"].Heal)
	assert.Equal(t, 6, names["Magic Missile Scroll"].Range)
	assert.Equal(t, 3, names["Fireball Scroll"].Radius)
}

func TestLoadTemplates_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no monsters", "player: {name: P, glyph: '@', hp: 1}\nitems: [{name: x, glyph: '!'}]\n"},
		{"no player hp", "player: {name: P}\nmonsters: [{name: o, glyph: o, hp: 1}]\nitems: [{name: x, glyph: '!'}]\n"},
		{"malformed", "player: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "t.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadTemplates(path)
			assert.Error(t, err)
		})
	}
}

func TestCreatureTemplate_Entity(t *testing.T) {
	tpl, err := DefaultTemplates()
	require.NoError(t, err)

	e := tpl.Monsters[0].Entity(domain.RenderOrderMonster)
	assert.Equal(t, 'o', e.Render.Glyph)
	assert.True(t, e.BlocksTile)
	assert.Equal(t, 16, e.Stats.MaxHP)
	assert.Equal(t, 8, e.Viewshed.Range)
	assert.True(t, e.Viewshed.Dirty)
	assert.NotNil(t, e.Motion)
}

func TestSpawner_Populate(t *testing.T) {
	tpl, err := DefaultTemplates()
	require.NoError(t, err)

	for seed := int64(1); seed <= 4; seed++ {
		res, err := Generate(config.BuilderRooms, DefaultOptions(), dice.New(seed), 1)
		require.NoError(t, err)

		w := domain.NewWorld()
		player := CreatePlayer(w, res.Map, tpl.Player, res.Start)
		monsters, items := NewSpawner(tpl, 4, 2).Populate(w, res, dice.New(seed))

		assert.Equal(t, 1+monsters+items, w.Len())
		assert.Equal(t, domain.KindPlayer, player.Kind())
		assert.True(t, res.Map.IsBlocked(res.Start), "player blocks its tile")

		occupied := map[domain.Position]bool{}
		w.Each(func(e *domain.Entity) {
			require.True(t, e.HasPos)
			assert.True(t, res.Map.TileAt(e.Pos).IsWalkable(), "%s spawned in a wall", e.Name)
			if e.ID == player.ID {
				return
			}
			assert.NotEqual(t, res.Start, e.Pos, "%s spawned on the start tile", e.Name)

			if e.Monster {
				assert.False(t, occupied[e.Pos], "two monsters share %v", e.Pos)
				occupied[e.Pos] = true
				assert.True(t, res.Map.IsBlocked(e.Pos))
				assert.Equal(t, domain.KindMonster, e.Kind())
			} else {
				assert.NotNil(t, e.Item)
				assert.Equal(t, domain.RenderOrderItem, e.Render.RenderOrder)
			}
		})
	}
}

func TestPickPoints(t *testing.T) {
	region := []domain.Position{{X: 1, Y: 1}, {X: 2, Y: 1}}
	start := domain.Position{X: 1, Y: 1}

	assert.Nil(t, pickPoints(region, 0, start, dice.New(1)))
	assert.Nil(t, pickPoints(region, -2, start, dice.New(1)))

	pts := pickPoints(region, 10, start, dice.New(1))
	assert.Equal(t, []domain.Position{{X: 2, Y: 1}}, pts, "start is skipped and duplicates collapse")
}
