package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accessfirst/internal/config"
	"accessfirst/internal/handler"
	"accessfirst/internal/i18n"
	"accessfirst/internal/service"
	"accessfirst/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// serveCmd runs the bot until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting AccessFirst Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		return err
	}
	if cfg.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	logger.Info("Configuration loaded successfully", zap.String("storage", cfg.StorageDriver))

	// Interrupts also abort startup, e.g. while waiting for the database
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", zap.Error(err))
		return err
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	schemas, err := store.DefaultSchemas()
	if err != nil {
		return fmt.Errorf("failed to load record schemas: %w", err)
	}
	catalog := i18n.Default()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Error("Failed to create bot", zap.Error(err))
		return err
	}

	logger.Info("Telegram bot initialized")

	sessions := service.NewSessionRegistry(backend, service.SessionConfig{
		Hasher:           service.NewBcryptHasher(cfg.BcryptCost),
		Catalog:          catalog,
		Schemas:          schemas,
		StoreTimeout:     cfg.StoreTimeout,
		ReminderInterval: cfg.ReminderInterval,
	}, handler.OutputFactory(bot, catalog, logger), logger)

	logger.Info("Session registry ready", zap.Duration("reminder_interval", cfg.ReminderInterval))

	h := handler.NewHandler(bot, sessions, catalog, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	sessions.Close()

	logger.Info("Bot stopped gracefully")
	return nil
}
