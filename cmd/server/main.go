package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/agent"
	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/engine"
	"github.com/amixtum/dd2/internal/infrastructure/storage"
	"github.com/amixtum/dd2/internal/network"
	"github.com/amixtum/dd2/internal/server"
	"github.com/amixtum/dd2/internal/version"
	"github.com/amixtum/dd2/pkg/logger"
)

// hubBuffer - размер очереди кадров на одного подписчика.
const hubBuffer = 64

// botCommands - сколько команд демо-бот отправляет до остановки.
const botCommands = 5000

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг флагов
	var (
		configPath string
		seed       int64
		replayPath string
		bots       int
		botPace    time.Duration
	)
	flag.StringVar(&configPath, "config", "", "Path to TOML config (defaults built in)")
	flag.Int64Var(&seed, "seed", 0, "Seed for sessions that do not ask for one (0 for random)")
	flag.StringVar(&replayPath, "replay", "", "Path to .ddrp replay file to simulate")
	flag.IntVar(&bots, "bots", 0, "Number of demo sessions played by bots")
	flag.DurationVar(&botPace, "bot-pace", 300*time.Millisecond, "Delay between bot commands")
	flag.Parse()

	logger.Log.Info("Starting Dungeon server...")
	logger.Log.Info(version.String())

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Game.Seed = seed
		logger.Log.Infof("Using explicit seed: %d", seed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		runReplay(ctx, cfg, replayPath)
		return
	}

	port := os.Getenv("DD_PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	// 2. Реестр сессий и хаб рассылки
	hub := network.NewBroadcaster(hubBuffer)
	reg := engine.NewRegistry(cfg, hub)
	if cfg.Server.ReplayDir != "" {
		replays, err := storage.NewReplayService(cfg.Server.ReplayDir)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to prepare replay directory")
		}
		reg.Replays = replays
	}

	for i := 0; i < bots; i++ {
		startBot(ctx, reg, i, botPace)
	}

	// 3. Сервер до сигнала остановки
	if err := server.New(reg, port).Run(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Server failed")
	}
	logger.Log.Info("Server exited properly")
}

// startBot запускает демо-сессию, за которой можно следить через /watch.
func startBot(ctx context.Context, reg *engine.Registry, n int, pace time.Duration) {
	s, err := reg.Start(ctx, 0)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to start bot session")
		return
	}
	bot := agent.NewBot(fmt.Sprintf("bot-%d", n), s)
	bot.Pace = pace
	go func() {
		if _, err := bot.Run(ctx, botCommands); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).WithField("session", s.ID).Warn("Bot stopped")
		}
	}()
}

// runReplay проигрывает записанную сессию и сообщает, совпал ли итог.
func runReplay(ctx context.Context, cfg *config.Config, path string) {
	logger.Log.Info("Mode: Replay Simulation")

	svc, err := storage.NewReplayService(filepath.Dir(path))
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open replay directory")
	}
	rec, err := svc.Load(path)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load replay")
	}

	g, err := engine.PlayReplay(ctx, cfg, rec)
	if err != nil {
		logger.Log.WithError(err).Fatal("Replay failed")
	}
	defer g.Close()

	logger.Log.WithFields(logrus.Fields{
		"seed":    rec.Seed,
		"actions": len(rec.Actions),
		"depth":   g.Map.Depth,
		"tick":    g.Turn,
		"state":   g.State.Current(),
	}).Info("Replay finished")
}
