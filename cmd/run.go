package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"pointsbot/bot"
	"pointsbot/config"
	"pointsbot/database"
	"pointsbot/events"
	"pointsbot/repository"
	"pointsbot/service"
	"pointsbot/web"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting points bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Info("Initializing services...")
	ledgerService := service.NewLedgerService(uowFactory)
	catalogService := service.NewCatalogService(uowFactory)
	redeemService := service.NewRedeemService(uowFactory)
	keyService := service.NewKeyService(uowFactory)
	dropService := service.NewDropService(uowFactory)

	// Start the uptime endpoint alongside the gateway
	uptimeServer := web.NewServer(cfg.HTTPPort)
	uptimeServer.Start()

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.DiscordGuildID,
		OwnerRoleName:    cfg.OwnerRoleName,
		AuditChannelName: cfg.AuditChannelName,
	}
	discordBot, err := bot.New(botConfig, ledgerService, catalogService, redeemService, keyService, dropService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uptimeServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down uptime endpoint")
	}

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
