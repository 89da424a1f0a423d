package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord, scoped to
// the configured guild so they appear immediately
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "help",
			Description: "Show all commands",
		},
		{
			Name:        "points",
			Description: "Check a user's points",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to check",
					Required:    true,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show top 10 users",
		},
		{
			Name:        "rewards",
			Description: "List available rewards",
		},
		{
			Name:        "redeem",
			Description: "Redeem a reward",
		},
		{
			Name:        "give",
			Description: "Give points to a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to give points to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of points",
					Required:    true,
				},
			},
		},
		{
			Name:        "give_everyone",
			Description: "Give points to everyone",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to give",
					Required:    true,
				},
			},
		},
		{
			Name:        "remove_points",
			Description: "Remove points from a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to remove points from",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Points to remove",
					Required:    true,
				},
			},
		},
		{
			Name:        "raw_points",
			Description: "Show all members and points",
		},
		{
			Name:        "add_reward",
			Description: "Add a reward",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Reward name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "price",
					Description: "Price in points",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "stock",
					Description: "Units in stock",
					Required:    true,
				},
			},
		},
		{
			Name:        "add_stock",
			Description: "Add stock to a reward",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Reward name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Units to add",
					Required:    true,
				},
			},
		},
		{
			Name:        "delete_reward",
			Description: "Delete a reward",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Reward name",
					Required:    true,
				},
			},
		},
		{
			Name:        "drop",
			Description: "Drop multiple points for fastest users",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "How many separate drops (buttons)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "amounts",
					Description: "Comma-separated point values (e.g., 10,20,50)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "show_amounts",
					Description: "Show how much each button gives?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Optional role that can claim this drop",
					Required:    false,
				},
			},
		},
		{
			Name:        "generate_key",
			Description: "Generate a single-use redemption key",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pool",
					Description: "Reward pool descriptor (e.g., Points: 100-300; Role: VIP)",
					Required:    true,
				},
			},
		},
		{
			Name:        "redeem_key",
			Description: "Redeem a key for its reward",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "key",
					Description: "The key to redeem",
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
