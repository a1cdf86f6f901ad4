package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/dice"
	"github.com/amixtum/dd2/pkg/dungeon"
	"github.com/amixtum/dd2/pkg/logger"
)

const clearScreen = "\033[H\033[2J"

func init() {
	logger.Init()
}

func main() {
	var (
		configPath string
		builder    string
		seed       int64
		depth      int
		animate    bool
		frame      time.Duration
	)
	flag.StringVar(&configPath, "config", "", "Path to TOML config (defaults built in)")
	flag.StringVar(&builder, "builder", "", "Map builder: rooms, bsp_dungeon, bsp_interior, cellular, random")
	flag.Int64Var(&seed, "seed", 0, "Generation seed (0 for random)")
	flag.IntVar(&depth, "depth", 1, "Dungeon depth")
	flag.BoolVar(&animate, "animate", false, "Play back construction snapshots")
	flag.DurationVar(&frame, "frame", 0, "Delay between snapshots (defaults to mapgen.frame_delay)")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
		cfg = loaded
	}
	if builder == "" {
		builder = cfg.MapGen.Builder
	}
	if seed == 0 {
		seed = dice.RandomSeed()
	}
	if frame <= 0 {
		frame = cfg.MapGen.FrameDelay
	}

	opts := dungeon.OptionsFrom(cfg)
	opts.History = animate

	res, err := dungeon.Generate(builder, opts, dice.New(seed), depth)
	if err != nil {
		logger.Log.WithError(err).Fatal("Map generation failed")
	}

	if animate {
		play(res.History, frame)
	}

	marks := map[domain.Position]rune{res.Start: '@'}
	fmt.Print(dungeon.Render(res.Map, marks))

	logger.Log.WithFields(logrus.Fields{
		"builder":   res.Builder,
		"seed":      seed,
		"depth":     depth,
		"rooms":     len(res.Rooms),
		"regions":   len(res.SpawnRegions),
		"snapshots": len(res.History),
	}).Info("Level generated")
}

// play выводит снимки построения с паузой frame между кадрами.
func play(history []dungeon.Snapshot, frame time.Duration) {
	if len(history) == 0 {
		return
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for _, snap := range history {
		fmt.Print(clearScreen)
		fmt.Printf("step %d: %s\n", snap.Step, snap.Label)
		fmt.Print(dungeon.Render(snap.Map, nil))
		<-ticker.C
	}
	fmt.Print(clearScreen)
}
