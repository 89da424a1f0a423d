package bot

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"pointsbot/service"

	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the best available name for a guild member
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
	}
	if err != nil || member == nil {
		return "Unknown"
	}

	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		if member.User.GlobalName != "" {
			return member.User.GlobalName
		}
		return member.User.Username
	}
	return "Unknown"
}

// parseDiscordID converts a Discord snowflake string to int64
func parseDiscordID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// memberRoleNames resolves a member's role IDs to role names
func (b *Bot) memberRoleNames(s *discordgo.Session, member *discordgo.Member) []string {
	if member == nil {
		return nil
	}

	guildRoles, err := b.guildRoles(s)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve guild roles")
		return nil
	}

	byID := make(map[string]string, len(guildRoles))
	for _, role := range guildRoles {
		byID[role.ID] = role.Name
	}

	names := make([]string, 0, len(member.Roles))
	for _, roleID := range member.Roles {
		if name, ok := byID[roleID]; ok {
			names = append(names, name)
		}
	}
	return names
}

// guildRoles returns the guild's role list, preferring the session cache
func (b *Bot) guildRoles(s *discordgo.Session) ([]*discordgo.Role, error) {
	if guild, err := s.State.Guild(b.config.GuildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	return s.GuildRoles(b.config.GuildID)
}

// isOwner reports whether the interaction member holds the owner role
func (b *Bot) isOwner(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	for _, name := range b.memberRoleNames(s, i.Member) {
		if name == b.config.OwnerRoleName {
			return true
		}
	}
	return false
}

// requireOwner rejects non-owner callers with an ephemeral message
func (b *Bot) requireOwner(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if b.isOwner(s, i) {
		return true
	}
	b.respondWithError(s, i, "You don't have permission to use this command.")
	return false
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.WithError(err).Error("Error sending interaction response")
	}
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Error("Error sending ephemeral response")
	}
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	b.respondEphemeral(s, i, fmt.Sprintf("❌ %s", message))
}

// userFacingError turns an engine error into a message the caller can act
// on. Storage faults read as a retryable condition, never as data loss.
func userFacingError(err error) string {
	switch service.Kind(err) {
	case service.KindNotFound:
		return "Not found."
	case service.KindAlreadyUsed:
		return "That key has already been used."
	case service.KindOutOfStock:
		return "That reward is out of stock."
	case service.KindInsufficientFunds:
		return "Not enough points."
	case service.KindAlreadyClaimed:
		return "You've already picked up a drop from this batch!"
	case service.KindSlotTaken:
		return "That drop was already taken!"
	case service.KindNotEligible:
		return "You're not eligible for this drop."
	case service.KindInvalidState:
		return "Invalid request."
	default:
		return "Something went wrong. Please try again."
	}
}
