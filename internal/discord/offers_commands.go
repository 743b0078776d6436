package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// Discord allows up to 10 embeds per message
const maxEmbedsPerMessage = 10

// handleOffers lists the trades the other teams would offer for a team
func (hm *HandlerManager) handleOffers(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := hm.context()
	defer cancel()

	snap, ok := hm.snapshot(ctx, s, m.ChannelID)
	if !ok {
		return
	}
	team, err := hm.resolveTeam(snap, strings.Join(args, " "))
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!offers <team>` ("+err.Error()+")")
		return
	}

	offers, err := hm.desk.Offers(ctx, team.ID)
	if err != nil {
		hm.replyError(s, m.ChannelID, "generate offers", err)
		return
	}
	if len(offers) == 0 {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No teams are interested in trading with the %s right now.", team.FullName()))
		return
	}

	embeds := buildOfferEmbeds(team, offers)
	for i := 0; i < len(embeds); i += maxEmbedsPerMessage {
		end := i + maxEmbedsPerMessage
		if end > len(embeds) {
			end = len(embeds)
		}
		s.ChannelMessageSendEmbeds(m.ChannelID, embeds[i:end])
	}
}

// buildOfferEmbeds renders one embed per offer, seen from team's side
func buildOfferEmbeds(team models.Team, offers []models.TradeSummary) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, 0, len(offers))
	for i, offer := range offers {
		ours, theirs := offer.Teams[0], offer.Teams[1]
		if theirs.TeamID == team.ID {
			ours, theirs = theirs, ours
		}
		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Offer %d from %s", i+1, theirs.Abbrev),
			Color: tradeColor(offer),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "You receive", Value: describeAssets(ours.Arriving), Inline: true},
				{Name: "You give", Value: describeAssets(ours.Leaving), Inline: true},
				{
					Name: "Payroll",
					Value: fmt.Sprintf("%s → %s (%s)", models.FormatMoney(ours.PayrollBefore),
						models.FormatMoney(ours.PayrollAfter), signedMoney(ours.PayrollAfter-ours.PayrollBefore)),
				},
			},
		}
		if offer.LastResort {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: "Last-resort offer"}
		}
		embeds = append(embeds, embed)
	}
	return embeds
}
