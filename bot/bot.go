package bot

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"pointsbot/events"
	"pointsbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	OwnerRoleName    string
	AuditChannelName string
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	ledgerService  service.LedgerService
	catalogService service.CatalogService
	redeemService  service.RedeemService
	keyService     service.KeyService
	dropService    service.DropService
	eventBus       *events.Bus

	auditChannelMu sync.Mutex
	auditChannelID string
}

func New(config Config, ledgerService service.LedgerService, catalogService service.CatalogService, redeemService service.RedeemService, keyService service.KeyService, dropService service.DropService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:         config,
		session:        dg,
		ledgerService:  ledgerService,
		catalogService: catalogService,
		redeemService:  redeemService,
		keyService:     keyService,
		dropService:    dropService,
		eventBus:       eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleRedeemInteraction)
	dg.AddHandler(bot.handleDropInteraction)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Deliver engine audit messages to the log channel, best-effort
	bot.subscribeAuditLog()

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// subscribeAuditLog wires the event bus to the audit channel. Delivery
// failures are logged and swallowed; they never surface to the user whose
// operation emitted the event.
func (b *Bot) subscribeAuditLog() {
	deliver := func(ctx context.Context, logMessage string) {
		if logMessage == "" {
			return
		}
		if err := b.sendAuditMessage(logMessage); err != nil {
			log.WithError(err).Warn("Failed to deliver audit log message")
		}
	}

	b.eventBus.Subscribe(events.EventTypeRewardRedeemed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RewardRedeemedEvent); ok {
			deliver(ctx, e.LogMessage)
		}
	})
	b.eventBus.Subscribe(events.EventTypeDropClaimed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.DropClaimedEvent); ok {
			deliver(ctx, e.LogMessage)
		}
	})
	b.eventBus.Subscribe(events.EventTypeKeyRedeemed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.KeyRedeemedEvent); ok {
			deliver(ctx, e.LogMessage)
		}
	})
}

// sendAuditMessage posts to the configured audit channel, resolving and
// caching its ID on first use
func (b *Bot) sendAuditMessage(message string) error {
	channelID, err := b.auditChannel()
	if err != nil {
		return err
	}
	if channelID == "" {
		// No audit channel configured in this guild; nothing to do
		return nil
	}

	_, err = b.session.ChannelMessageSend(channelID, message)
	return err
}

func (b *Bot) auditChannel() (string, error) {
	b.auditChannelMu.Lock()
	defer b.auditChannelMu.Unlock()

	if b.auditChannelID != "" {
		return b.auditChannelID, nil
	}

	channels, err := b.session.GuildChannels(b.config.GuildID)
	if err != nil {
		return "", fmt.Errorf("failed to list guild channels: %w", err)
	}

	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText && channel.Name == b.config.AuditChannelName {
			b.auditChannelID = channel.ID
			return b.auditChannelID, nil
		}
	}

	return "", nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "help":
		b.handleHelp(s, i)
	case "points":
		b.handlePoints(s, i)
	case "leaderboard":
		b.handleLeaderboard(s, i)
	case "rewards":
		b.handleRewards(s, i)
	case "redeem":
		b.handleRedeem(s, i)
	case "give":
		b.handleGive(s, i)
	case "give_everyone":
		b.handleGiveEveryone(s, i)
	case "remove_points":
		b.handleRemovePoints(s, i)
	case "raw_points":
		b.handleRawPoints(s, i)
	case "add_reward":
		b.handleAddReward(s, i)
	case "add_stock":
		b.handleAddStock(s, i)
	case "delete_reward":
		b.handleDeleteReward(s, i)
	case "drop":
		b.handleDrop(s, i)
	case "generate_key":
		b.handleGenerateKey(s, i)
	case "redeem_key":
		b.handleRedeemKey(s, i)
	}
}
