package dungeon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/amixtum/dd2/internal/domain"
)

//go:embed templates.yaml
var defaultTemplates []byte

// CreatureTemplate определяет шаблон для создания существа
type CreatureTemplate struct {
	Name    string `yaml:"name"`
	Glyph   string `yaml:"glyph"`
	Color   string `yaml:"color"`
	HP      int    `yaml:"hp"`
	Defense int    `yaml:"defense"`
	Power   int    `yaml:"power"`
	View    int    `yaml:"view"`
}

// ItemTemplate - шаблон предмета. Нулевые поля означают отсутствие свойства.
type ItemTemplate struct {
	Name       string `yaml:"name"`
	Glyph      string `yaml:"glyph"`
	Color      string `yaml:"color"`
	Consumable bool   `yaml:"consumable"`
	Heal       int    `yaml:"heal"`
	Range      int    `yaml:"range"`
	Damage     int    `yaml:"damage"`
	Radius     int    `yaml:"radius"`
}

// Templates - таблица спавна целиком.
type Templates struct {
	Player   CreatureTemplate   `yaml:"player"`
	Monsters []CreatureTemplate `yaml:"monsters"`
	Items    []ItemTemplate     `yaml:"items"`
}

var ErrBadTemplates = errors.New("invalid spawn templates")

// DefaultTemplates разбирает встроенную таблицу.
func DefaultTemplates() (*Templates, error) {
	return ParseTemplates(defaultTemplates)
}

// LoadTemplates читает таблицу из файла. Пустой путь - встроенная таблица.
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return DefaultTemplates()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates %s: %w", path, err)
	}
	return ParseTemplates(data)
}

func ParseTemplates(data []byte) (*Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if t.Player.HP <= 0 {
		return nil, fmt.Errorf("%w: player needs hp", ErrBadTemplates)
	}
	if len(t.Monsters) == 0 || len(t.Items) == 0 {
		return nil, fmt.Errorf("%w: need at least one monster and one item", ErrBadTemplates)
	}
	for _, m := range t.Monsters {
		if m.HP <= 0 || m.Glyph == "" {
			return nil, fmt.Errorf("%w: monster %q", ErrBadTemplates, m.Name)
		}
	}
	for _, it := range t.Items {
		if it.Glyph == "" {
			return nil, fmt.Errorf("%w: item %q", ErrBadTemplates, it.Name)
		}
	}
	return &t, nil
}

func glyphOf(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// Entity создает сущность-существо. Позиция задается при размещении.
func (t CreatureTemplate) Entity(renderOrder int) *domain.Entity {
	return &domain.Entity{
		Name:       t.Name,
		BlocksTile: true,
		Render: &domain.Renderable{
			Glyph:       glyphOf(t.Glyph),
			Color:       t.Color,
			RenderOrder: renderOrder,
		},
		Motion: &domain.Motion{},
		Stats: &domain.CombatStats{
			MaxHP:   t.HP,
			HP:      t.HP,
			Defense: t.Defense,
			Power:   t.Power,
		},
		Viewshed: domain.NewViewshed(t.View),
	}
}

// Entity создает предмет на полу.
func (t ItemTemplate) Entity() *domain.Entity {
	return &domain.Entity{
		Name: t.Name,
		Render: &domain.Renderable{
			Glyph:       glyphOf(t.Glyph),
			Color:       t.Color,
			RenderOrder: domain.RenderOrderItem,
		},
		Item: &domain.ItemComponent{
			Consumable:      t.Consumable,
			ProvidesHealing: t.Heal,
			Ranged:          t.Range,
			InflictsDamage:  t.Damage,
			AreaOfEffect:    t.Radius,
		},
	}
}
