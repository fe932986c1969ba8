package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"safeguard/internal/alerting"
	"safeguard/internal/config"
	"safeguard/internal/notifier"
	"safeguard/internal/pipeline"
	"safeguard/internal/repository"
	"safeguard/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	log := logrus.New()

	// Load .env if present (local development overrides)
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	// Load configuration
	cfgPath := "configs/config.yml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		cfgPath = envPath
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	childRepo := repository.NewChildRepository(db, logger)
	messageRepo := repository.NewMessageRepository(db, logger)
	alertRepo := repository.NewAlertRepository(db, logger)

	// Notification dispatch is fire-and-forget: Telegram when configured,
	// otherwise the log sender
	var sender notifier.Sender
	telegramSender, err := notifier.NewTelegramSender(cfg, log)
	if err != nil {
		logger.Warn("Failed to initialize Telegram sender, falling back to log sender", zap.Error(err))
	}
	if telegramSender != nil {
		sender = telegramSender
	} else {
		sender = notifier.NewLogSender(log)
	}
	dispatcher := notifier.NewDispatcher(sender, cfg.Notifications.BufferSize, log)

	// Moderation pipeline
	synthesizer := alerting.NewSynthesizer(messageRepo, alertRepo, dispatcher, logger)
	p := pipeline.NewPipeline(childRepo, messageRepo, alertRepo, synthesizer, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run notification dispatcher in a goroutine
	go dispatcher.Run(ctx)

	// Initialize and run the server
	srv := server.NewServer(db, p, logger, log)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
