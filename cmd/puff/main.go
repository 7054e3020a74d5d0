package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/puffmon/puff/internal/api/http"
	"github.com/puffmon/puff/internal/api/ws"
	"github.com/puffmon/puff/internal/assistant"
	"github.com/puffmon/puff/internal/config"
	"github.com/puffmon/puff/internal/logging"
	"github.com/puffmon/puff/internal/scheduler"
	"github.com/puffmon/puff/internal/sensor"
	"github.com/puffmon/puff/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.AppEnv == "dev")

	// Reading store: SQLite when a path is configured, in-memory otherwise.
	var (
		readings store.ReadingStore
		settings store.SettingsStore
	)
	if cfg.DBPath != "" {
		sqlStore, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database", "path", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		readings, settings = sqlStore, sqlStore
	} else {
		mem := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
		readings, settings = mem, mem
	}

	// Sensor polling. A missing device is not fatal: the API keeps serving
	// whatever history the store already holds.
	if port, err := os.Open(cfg.SensorPort); err != nil {
		log.Warn("sensor device unavailable, polling disabled", "port", cfg.SensorPort, "error", err)
	} else {
		defer port.Close()
		src := sensor.NewSDS011(port)
		poller := scheduler.New(src, readings, settings, cfg.ReadInterval, log)
		if err := poller.Start(); err != nil {
			log.Error("failed to start poller", "error", err)
			os.Exit(1)
		}
		defer poller.Stop()
	}

	// Intent-matching engine over the shared store.
	engine := assistant.NewEngine(readings)

	app := fiber.New(fiber.Config{
		AppName:               "puff",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "puff",
		})
	})

	// Dashboard status channel.
	hub := ws.NewHub(log)
	app.Use("/ws", ws.UpgradeGuard)
	app.Get("/ws", hub.Handler())

	// API routes.
	httpapi.RegisterRoutes(app, engine, readings, settings, hub)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()
	log.Info("puff listening", "port", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
