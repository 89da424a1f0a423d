package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Role gating
	OwnerRoleName string // role required for admin commands

	// Audit logging
	AuditChannelName string // channel that receives redemption/claim logs

	// Uptime endpoint
	HTTPPort int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, honoring a local .env file
func load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		// Defaults matching the community setup
		OwnerRoleName:    "Owner",
		AuditChannelName: "redeem_logs",
		HTTPPort:         5000,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if role := os.Getenv("OWNER_ROLE_NAME"); role != "" {
		config.OwnerRoleName = role
	}
	if channel := os.Getenv("AUDIT_CHANNEL_NAME"); channel != "" {
		config.AuditChannelName = channel
	}
	if port := os.Getenv("PORT"); port != "" {
		if parsedPort, err := strconv.Atoi(port); err == nil {
			config.HTTPPort = parsedPort
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DiscordGuildID == "" {
			return nil, fmt.Errorf("DISCORD_GUILD_ID is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
