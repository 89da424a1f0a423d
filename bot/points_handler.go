package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

const helpText = `
**User Commands**
- ` + "`/points [user]`" + ` - Check a user's points.
- ` + "`/leaderboard`" + ` - View top 10 point holders.
- ` + "`/rewards`" + ` - View available rewards.
- ` + "`/redeem`" + ` - Redeem a reward.
- ` + "`/redeem_key [key]`" + ` - Redeem a key.

**Owner Commands**
- ` + "`/give [user] [amount]`" + `
- ` + "`/give_everyone [amount]`" + `
- ` + "`/remove_points [user] [amount]`" + `
- ` + "`/raw_points`" + `
- ` + "`/add_reward [name] [price] [stock]`" + `
- ` + "`/add_stock [reward] [amount]`" + `
- ` + "`/delete_reward [name]`" + `
- ` + "`/drop [count] [amounts] [show_amounts]`" + `
- ` + "`/generate_key [pool]`" + `
`

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.respondEphemeral(s, i, helpText)
}

func (b *Bot) handlePoints(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	user := i.ApplicationCommandData().Options[0].UserValue(s)
	if user == nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}

	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", user.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	balance, err := b.ledgerService.GetBalance(ctx, discordID)
	if err != nil {
		log.WithError(err).Errorf("Error getting balance for %d", discordID)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respond(s, i, fmt.Sprintf("%s has **%d** points.", user.Mention(), balance))
}

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	accounts, err := b.ledgerService.Leaderboard(ctx, 10)
	if err != nil {
		log.WithError(err).Error("Error getting leaderboard")
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	var msg strings.Builder
	msg.WriteString("**Top 10 Users:**\n")
	for rank, account := range accounts {
		name := GetDisplayName(s, i.GuildID, fmt.Sprintf("%d", account.DiscordID))
		msg.WriteString(fmt.Sprintf("%d. %s — %d points\n", rank+1, name, account.Balance))
	}

	b.respond(s, i, msg.String())
}

func (b *Bot) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	var amount int64
	var user *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			user = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}

	if user == nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}

	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := b.ledgerService.Credit(ctx, discordID, amount); err != nil {
		log.WithError(err).Errorf("Error crediting %d points to %d", amount, discordID)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respond(s, i, fmt.Sprintf("Gave **%d** points to %s.", amount, user.Mention()))
}

func (b *Bot) handleGiveEveryone(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	amount := i.ApplicationCommandData().Options[0].IntValue()

	accountIDs, err := b.allMemberIDs(s)
	if err != nil {
		log.WithError(err).Error("Error listing guild members")
		b.respondWithError(s, i, "Unable to list guild members. Please try again.")
		return
	}

	result, err := b.ledgerService.CreditAll(ctx, accountIDs, amount)
	if err != nil {
		log.WithError(err).Error("Error bulk crediting points")
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	msg := fmt.Sprintf("Gave **%d** points to everyone.", amount)
	if result.Failed > 0 {
		msg = fmt.Sprintf("Gave **%d** points to %d members (%d failed).", amount, result.Credited, result.Failed)
	}
	b.respond(s, i, msg)
}

// allMemberIDs collects every non-bot member of the guild
func (b *Bot) allMemberIDs(s *discordgo.Session) ([]int64, error) {
	var ids []int64
	after := ""
	for {
		members, err := s.GuildMembers(b.config.GuildID, after, 1000)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			break
		}
		for _, member := range members {
			if member.User == nil || member.User.Bot {
				continue
			}
			id, err := parseDiscordID(member.User.ID)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		after = members[len(members)-1].User.ID
		if len(members) < 1000 {
			break
		}
	}
	return ids, nil
}

func (b *Bot) handleRemovePoints(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	var amount int64
	var user *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			user = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}

	if user == nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}

	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := b.ledgerService.Debit(ctx, discordID, amount); err != nil {
		log.WithError(err).Errorf("Error removing %d points from %d", amount, discordID)
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	b.respond(s, i, fmt.Sprintf("Removed **%d** points from %s.", amount, user.Mention()))
}

func (b *Bot) handleRawPoints(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireOwner(s, i) {
		return
	}
	ctx := context.Background()

	accounts, err := b.ledgerService.AllBalances(ctx)
	if err != nil {
		log.WithError(err).Error("Error getting all balances")
		b.respondWithError(s, i, userFacingError(err))
		return
	}

	var msg strings.Builder
	msg.WriteString("**All Points:**\n")
	for _, account := range accounts {
		name := GetDisplayName(s, i.GuildID, fmt.Sprintf("%d", account.DiscordID))
		msg.WriteString(fmt.Sprintf("%s: %d\n", name, account.Balance))
	}

	b.respond(s, i, msg.String())
}
