package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleGenerateKey(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	pool := i.ApplicationCommandData().Options[0].StringValue()

	token, err := b.keyService.GenerateKey(ctx, pool)
	if err != nil {
		log.WithError(err).Warn("Error generating key")
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("Generated key `%s` for pool `%s`.", token, pool))
}

func (b *Bot) handleRedeemKey(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	token := i.ApplicationCommandData().Options[0].StringValue()

	discordID, err := parseDiscordID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", i.Member.User.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := b.keyService.RedeemKey(ctx, discordID, token)
	if err != nil {
		log.WithError(err).Warnf("Key redemption failed for %d", discordID)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	// The point grant is committed. The role grant is best-effort: a
	// failure becomes a warning on the response, never a rollback.
	message := result.PublicMessage
	if result.RoleGrant != "" {
		if err := b.grantRole(s, i.Member.User.ID, result.RoleGrant); err != nil {
			log.WithError(err).Warnf("Failed to grant role %q to %s", result.RoleGrant, i.Member.User.ID)
			message = fmt.Sprintf("%s\n⚠️ Could not assign the **%s** role — ask a moderator.", message, result.RoleGrant)
		}
	}

	b.respondEphemeral(s, i, message)
}

// grantRole assigns the named role to a guild member
func (b *Bot) grantRole(s *discordgo.Session, userID, roleName string) error {
	guildRoles, err := b.guildRoles(s)
	if err != nil {
		return fmt.Errorf("failed to resolve guild roles: %w", err)
	}

	for _, role := range guildRoles {
		if role.Name == roleName {
			return s.GuildMemberRoleAdd(b.config.GuildID, userID, role.ID)
		}
	}

	return fmt.Errorf("role %q not found in guild", roleName)
}
