package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

const redeemSelectID = "redeem_select"

func (b *Bot) handleRewards(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	rewards, err := b.catalogService.List(ctx)
	if err != nil {
		log.WithError(err).Error("Error listing rewards")
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	if len(rewards) == 0 {
		b.respond(s, i, "No rewards available.")
		return
	}

	var msg strings.Builder
	msg.WriteString("**Rewards Available:**\n")
	for _, reward := range rewards {
		msg.WriteString(fmt.Sprintf("- **%s**: %d points (%d in stock)\n", reward.Name, reward.Price, reward.Stock))
	}

	b.respond(s, i, msg.String())
}

// handleRedeem opens an ephemeral select menu over the in-stock rewards
func (b *Bot) handleRedeem(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	rewards, err := b.catalogService.List(ctx)
	if err != nil {
		log.WithError(err).Error("Error listing rewards")
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	var options []discordgo.SelectMenuOption
	for _, reward := range rewards {
		if !reward.InStock() {
			continue
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       reward.Name,
			Value:       reward.Name,
			Description: fmt.Sprintf("%d pts", reward.Price),
		})
	}

	if len(options) == 0 {
		b.respond(s, i, "All rewards are out of stock.")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Choose a reward to redeem:",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    redeemSelectID,
							Placeholder: "Select a reward to redeem",
							Options:     options,
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding to redeem command")
	}
}

// handleRedeemInteraction completes a redemption when a menu option is picked
func (b *Bot) handleRedeemInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if i.MessageComponentData().CustomID != redeemSelectID {
		return
	}

	ctx := context.Background()

	values := i.MessageComponentData().Values
	if len(values) != 1 {
		b.respondWithError(s, i, "Invalid selection.")
		return
	}
	rewardName := values[0]

	discordID, err := parseDiscordID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", i.Member.User.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := b.redeemService.Redeem(ctx, discordID, rewardName)
	if err != nil {
		log.WithError(err).Warnf("Redemption of %q failed for %d", rewardName, discordID)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	// Audit log delivery rides the event bus
	b.respondEphemeral(s, i, result.PublicMessage)
}

func (b *Bot) handleAddReward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	var name string
	var price, stock int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "price":
			price = opt.IntValue()
		case "stock":
			stock = opt.IntValue()
		}
	}

	if err := b.catalogService.AddReward(ctx, name, price, stock); err != nil {
		log.WithError(err).Warnf("Error adding reward %q", name)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respond(s, i, fmt.Sprintf("Added reward **%s**.", name))
}

func (b *Bot) handleAddStock(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	var name string
	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "amount":
			amount = opt.IntValue()
		}
	}

	if _, err := b.catalogService.AddStock(ctx, name, amount); err != nil {
		log.WithError(err).Warnf("Error adjusting stock for %q", name)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respond(s, i, fmt.Sprintf("Added **%d** stock to **%s**.", amount, name))
}

func (b *Bot) handleDeleteReward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	name := i.ApplicationCommandData().Options[0].StringValue()

	if err := b.catalogService.DeleteReward(ctx, name); err != nil {
		log.WithError(err).Warnf("Error deleting reward %q", name)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respond(s, i, fmt.Sprintf("Deleted reward **%s**.", name))
}
