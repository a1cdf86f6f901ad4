package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	MapGen   MapGenConfig   `toml:"mapgen"`
	Movement MovementConfig `toml:"movement"`
	Spawn    SpawnConfig    `toml:"spawn"`
	Rules    RulesConfig    `toml:"rules"`
	Server   ServerConfig   `toml:"server"`
}

type GameConfig struct {
	Seed   int64 `toml:"seed"` // 0 = случайный сид при старте
	Width  int   `toml:"width"`
	Height int   `toml:"height"`
}

type MapGenConfig struct {
	Builder          string        `toml:"builder"` // rooms, bsp_dungeon, bsp_interior, cellular, random
	MaxRooms         int           `toml:"max_rooms"`
	MinRoomSize      int           `toml:"min_room"`
	MaxRoomSize      int           `toml:"max_room"` // верхняя граница не включается
	History          bool          `toml:"history"`
	MaxAttempts      int           `toml:"max_attempts"`
	StairsAtLastRoom bool          `toml:"stairs_at_last_room"`
	CaveIterations   int           `toml:"cave_iterations"`
	MinFloorFraction float64       `toml:"min_floor_fraction"`
	FrameDelay       time.Duration `toml:"frame_delay"` // скорость проигрывания снимков
}

// MovementConfig - константы модели импульса и баланса.
type MovementConfig struct {
	PlayerInst     float64 `toml:"player_inst"`
	MonsterInst    float64 `toml:"monster_inst"`
	MaxSpeed       float64 `toml:"max_speed"`
	SpeedDamp      float64 `toml:"speed_damp"`
	ZeroSpeed      float64 `toml:"zero_speed"`
	ZeroBalance    float64 `toml:"zero_balance"`
	BalanceDamp    float64 `toml:"balance_damp"`
	LeanFactor     float64 `toml:"lean_factor"`
	Fallover       float64 `toml:"fallover"`
	FalloverDamage int     `toml:"fallover_damage"` // 0 = падение без урона
}

type SpawnConfig struct {
	MaxMonsters int    `toml:"max_monsters"`
	MaxItems    int    `toml:"max_items"`
	Templates   string `toml:"templates"` // пусто = встроенный YAML
}

type RulesConfig struct {
	MeleeRange       float64 `toml:"melee_range"`
	EnforceAdjacency bool    `toml:"enforce_adjacency"`
	MeleeScript      string  `toml:"melee_script"` // путь к .lua с calc_melee_damage
}

type ServerConfig struct {
	Port        string        `toml:"port"`
	IdleTimeout time.Duration `toml:"idle_timeout"` // сессия без команд закрывается
	MaxSessions int           `toml:"max_sessions"` // 0 = без ограничения
	ReplayDir   string        `toml:"replay_dir"`   // пусто = ленты партий не сохраняются
}

// Имена построителей карт.
const (
	BuilderRooms       = "rooms"
	BuilderBspDungeon  = "bsp_dungeon"
	BuilderBspInterior = "bsp_interior"
	BuilderCellular    = "cellular"
	BuilderRandom      = "random"
)

var knownBuilders = map[string]bool{
	BuilderRooms:       true,
	BuilderBspDungeon:  true,
	BuilderBspInterior: true,
	BuilderCellular:    true,
	BuilderRandom:      true,
}

// Load читает TOML поверх значений по умолчанию и проверяет результат.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Width:  80,
			Height: 44,
		},
		MapGen: MapGenConfig{
			Builder:          BuilderRandom,
			MaxRooms:         30,
			MinRoomSize:      6,
			MaxRoomSize:      10,
			History:          true,
			MaxAttempts:      8,
			CaveIterations:   15,
			MinFloorFraction: 1.0 / 3.0,
			FrameDelay:       150 * time.Millisecond,
		},
		Movement: MovementConfig{
			PlayerInst:  0.77,
			MonsterInst: 0.66,
			MaxSpeed:    3.0,
			SpeedDamp:   0.66,
			ZeroSpeed:   0.5,
			ZeroBalance: 0.25,
			BalanceDamp: 0.5,
			LeanFactor:  0.66,
			Fallover:    5.0,
		},
		Spawn: SpawnConfig{
			MaxMonsters: 4,
			MaxItems:    2,
		},
		Rules: RulesConfig{
			MeleeRange:       1.5,
			EnforceAdjacency: true,
		},
		Server: ServerConfig{
			Port:        "8080",
			IdleTimeout: 10 * time.Minute,
		},
	}
}

var (
	ErrBadDimensions = errors.New("map dimensions must be at least 20x20")
	ErrBadDamping    = errors.New("damping factors must be in (0, 1]")
	ErrBadSpeed      = errors.New("max_speed must exceed zero_speed")
	ErrBadBuilder    = errors.New("unknown map builder")
	ErrBadRoomSize   = errors.New("room size range is empty")
)

// Validate отклоняет заведомо неработоспособные настройки.
func (c *Config) Validate() error {
	if c.Game.Width < 20 || c.Game.Height < 20 {
		return fmt.Errorf("%w: got %dx%d", ErrBadDimensions, c.Game.Width, c.Game.Height)
	}
	m := c.Movement
	if m.SpeedDamp <= 0 || m.SpeedDamp > 1 || m.BalanceDamp <= 0 || m.BalanceDamp > 1 {
		return fmt.Errorf("%w: speed_damp=%v balance_damp=%v", ErrBadDamping, m.SpeedDamp, m.BalanceDamp)
	}
	if m.MaxSpeed <= m.ZeroSpeed {
		return fmt.Errorf("%w: max_speed=%v zero_speed=%v", ErrBadSpeed, m.MaxSpeed, m.ZeroSpeed)
	}
	if !knownBuilders[c.MapGen.Builder] {
		return fmt.Errorf("%w: %q", ErrBadBuilder, c.MapGen.Builder)
	}
	if c.MapGen.MinRoomSize < 3 || c.MapGen.MaxRoomSize <= c.MapGen.MinRoomSize {
		return fmt.Errorf("%w: [%d, %d)", ErrBadRoomSize, c.MapGen.MinRoomSize, c.MapGen.MaxRoomSize)
	}
	if c.MapGen.MaxAttempts < 1 {
		c.MapGen.MaxAttempts = 1
	}
	return nil
}
