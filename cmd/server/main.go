package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/qppgateway/api/internal/client"
	"github.com/qppgateway/api/internal/config"
	"github.com/qppgateway/api/internal/middleware"
	"github.com/qppgateway/api/internal/server"
	"github.com/qppgateway/api/internal/service"
	ws "github.com/qppgateway/api/internal/websocket"
	"github.com/qppgateway/api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logg := logger.New(logger.Config{Level: cfg.Server.LogLevel, Pretty: cfg.Server.LogPretty})
	logger.SetGlobalLogger(logg)

	if err := os.MkdirAll(cfg.Simulator.WorkDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Simulator.WorkDir).Msg("work directory unavailable")
	}

	// Initialize Redis client (optional - job counters are disabled without it)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis not available")
		}
	} else {
		log.Info().Msg("redis not configured, job stats disabled")
	}

	// Initialize WebSocket hub
	hub := ws.NewHub(logg.With().Str("component", "hub").Logger())
	go hub.Run()

	simulator := client.NewSimulatorClient(&cfg.Simulator)
	if !simulator.Available() {
		log.Warn().Str("binary", cfg.Simulator.Binary).Msg("simulator binary not found, submissions will fail")
	}

	// Initialize services
	statsService := service.NewStatsService(redisClient)
	simulationService := service.NewSimulationService(
		cfg.Simulator.WorkDir,
		simulator,
		hub,
		statsService,
		logg.With().Str("component", "lifecycle").Logger(),
	)

	// Cancelled once the shutdown grace period is over
	baseCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	app := server.NewApp(&server.Dependencies{
		Simulation: simulationService,
		Stats:      statsService,
		Simulator:  simulator,
		Hub:        hub,
		Auth:       middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.Auth.Enabled),
		BodyLimit:  cfg.Server.BodyLimit,
		AccessLog:  true,
		Debug:      cfg.Server.IsDevelopment(),

		BaseContext: baseCtx,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-quit
		log.Info().Msg("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		cancelJobs()
		simulationService.Wait()
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Info().
		Str("addr", addr).
		Str("simulator", cfg.Simulator.Binary).
		Str("work_dir", cfg.Simulator.WorkDir).
		Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}

	// Listen returns as soon as shutdown starts; wait for in-flight jobs
	// to finish and clean up their artifacts
	<-shutdownDone
}
