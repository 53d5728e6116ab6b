package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/config"
	"github.com/varunish/Wingspan-online/internal/game"
	"github.com/varunish/Wingspan-online/internal/lobby"
	"github.com/varunish/Wingspan-online/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Wingspan server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cat, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("birds", len(cat.Birds())),
		zap.Int("bonus_cards", len(cat.BonusCards())),
		zap.Int("round_goals", len(cat.RoundGoals())),
	)

	opts := []game.Option{game.WithSettings(settingsFrom(cfg.Game))}
	if cfg.Game.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Game.Seed))
		logger.Warn("using fixed game seed", zap.Int64("seed", cfg.Game.Seed))
	}

	hub := server.NewHub(logger)
	go hub.Run()

	lobbies := lobby.NewManager(cfg.Lobby.CodeLength, cfg.Lobby.MaxPlayers, logger)
	games := server.NewGameRegistry(cat, logger, opts...)
	if cfg.Game.ReplayDir != "" {
		games.RecordReplays(game.NewReplayRecorder(logger, cfg.Game.ReplayDir))
		logger.Info("recording replays", zap.String("directory", cfg.Game.ReplayDir))
	}
	srv := server.New(cfg.Server.WebSocket, hub, lobbies, games, logger)

	wsDone := make(chan error, 1)
	go func() {
		wsDone <- srv.ListenAndServe(ctx, cfg.Server.WebSocket, cfg.Server.ShutdownTimeout)
	}()

	healthErr := make(chan error, 1)

	var health *server.HealthServer
	if cfg.Server.GRPC.Address != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPC.Address)
		if err != nil {
			logger.Fatal("failed to listen", zap.Error(err), zap.String("address", cfg.Server.GRPC.Address))
		}
		health = server.NewHealthServer(logger)
		go func() {
			if err := health.Serve(lis); err != nil {
				healthErr <- err
			}
		}()
	}

	wsStopped := false
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-wsDone:
		wsStopped = true
		if err != nil {
			logger.Error("websocket server error", zap.Error(err))
		}
	case err := <-healthErr:
		logger.Error("gRPC health server error", zap.Error(err))
	}

	logger.Info("shutting down server...")
	if health != nil {
		health.SetServing(false)
	}
	cancel()

	// ListenAndServe drains websocket connections once ctx is cancelled.
	if !wsStopped {
		select {
		case err := <-wsDone:
			if err != nil {
				logger.Warn("websocket shutdown", zap.Error(err))
			}
		case <-time.After(cfg.Server.ShutdownTimeout + time.Second):
			logger.Warn("websocket server did not stop in time")
		}
	}
	hub.Stop()
	if health != nil {
		health.Stop()
	}

	logger.Info("server stopped",
		zap.Int("lobbies", lobbies.Count()),
		zap.Int("games", games.Count()),
	)
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	switch cfg.Source {
	case "dir":
		return catalog.LoadDir(cfg.Dir)
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("database connection established")
		return catalog.LoadPostgres(ctx, pool)
	default:
		return catalog.LoadEmbedded()
	}
}

func settingsFrom(cfg config.GameConfig) game.Settings {
	return game.Settings{
		MaxRounds:          cfg.MaxRounds,
		ActionCubes:        cfg.ActionCubes,
		BirdTraySize:       cfg.BirdTraySize,
		HandLimit:          cfg.HandLimit,
		DiscardLimit:       cfg.DiscardLimit,
		HabitatSlots:       cfg.HabitatSlots,
		SetupBirds:         cfg.SetupBirds,
		SetupBonusCards:    cfg.SetupBonusCards,
		DiceCount:          cfg.DiceCount,
		DefaultEggCapacity: cfg.DefaultEggCapacity,
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
