package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"pointsbot/models"

	"github.com/bwmarrin/discordgo"
)

const dropButtonPrefix = "drop:"

func (b *Bot) handleDrop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	var count int64
	var amounts string
	var showAmounts bool
	var role *discordgo.Role
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "count":
			count = opt.IntValue()
		case "amounts":
			amounts = opt.StringValue()
		case "show_amounts":
			showAmounts = opt.BoolValue()
		case "role":
			role = opt.RoleValue(s, i.GuildID)
		}
	}

	payouts, err := parsePayouts(amounts)
	if err != nil {
		b.respondWithError(s, i, "Invalid point amounts. Use format: 10,20,30")
		return
	}
	if int64(len(payouts)) != count {
		b.respondWithError(s, i, fmt.Sprintf("You must provide exactly %d drop values.", count))
		return
	}

	requiredRole := ""
	if role != nil {
		requiredRole = role.Name
	}

	eventID, labels, err := b.dropService.CreateEvent(ctx, payouts, showAmounts, requiredRole)
	if err != nil {
		log.WithError(err).Warn("Error creating drop event")
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	title := "**A points drop has appeared!**"
	if role != nil {
		title = fmt.Sprintf("**%s only Drop!**", role.Mention())
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("%s\n**0/%d claimed**", title, len(labels)),
			Components: buildDropButtons(eventID, labels),
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding to drop command")
	}
}

// handleDropInteraction arbitrates a claim button press
func (b *Bot) handleDropInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, dropButtonPrefix) {
		return
	}

	ctx := context.Background()

	eventID, slotIndex, err := parseDropCustomID(customID)
	if err != nil {
		log.WithError(err).Warnf("Malformed drop custom ID %q", customID)
		b.respondWithError(s, i, "Invalid request.")
		return
	}

	discordID, err := parseDiscordID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", i.Member.User.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	roles := b.memberRoleNames(s, i.Member)

	result, err := b.dropService.Claim(ctx, eventID, discordID, slotIndex, roles)
	if err != nil {
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respondEphemeral(s, i, result.PublicMessage)

	// Re-render the full claim surface so all slots reflect the new state
	b.updateDropMessage(s, i, eventID, result)
}

func (b *Bot) updateDropMessage(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string, result *models.ClaimResult) {
	if i.Message == nil {
		return
	}

	// Keep the original title line, refresh the claim counter
	title, _, _ := strings.Cut(i.Message.Content, "\n")
	content := fmt.Sprintf("%s\n**%d/%d claimed**", title, result.ClaimedCount, result.TotalSlots)
	components := buildDropButtons(eventID, result.Labels)

	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         i.Message.ID,
		Channel:    i.ChannelID,
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		log.WithError(err).Error("Error updating drop message")
	}
}

// buildDropButtons renders one green button per slot, five per row
func buildDropButtons(eventID string, labels []models.SlotLabel) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var current []discordgo.MessageComponent

	for _, label := range labels {
		current = append(current, discordgo.Button{
			Label:    label.Label,
			Style:    discordgo.SuccessButton,
			CustomID: fmt.Sprintf("%s%s:%d", dropButtonPrefix, eventID, label.Index),
			Disabled: label.Claimed,
		})
		if len(current) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: current})
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: current})
	}

	return rows
}

func parsePayouts(amounts string) ([]int64, error) {
	parts := strings.Split(amounts, ",")
	payouts := make([]int64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid payout %q: %w", part, err)
		}
		payouts = append(payouts, value)
	}
	return payouts, nil
}

func parseDropCustomID(customID string) (string, int, error) {
	rest := strings.TrimPrefix(customID, dropButtonPrefix)
	eventID, slot, ok := strings.Cut(rest, ":")
	if !ok {
		return "", 0, fmt.Errorf("missing slot index")
	}
	slotIndex, err := strconv.Atoi(slot)
	if err != nil {
		return "", 0, fmt.Errorf("invalid slot index %q: %w", slot, err)
	}
	return eventID, slotIndex, nil
}
