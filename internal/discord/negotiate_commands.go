package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/negotiation"
)

// handleNegotiate opens (or resumes) contract talks and shows the menu of
// contracts the player would sign
func (hm *HandlerManager) handleNegotiate(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	rest, flags := splitFlags(args)
	if len(rest) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!negotiate <player name> [--team=<abbrev>]`")
		return
	}
	playerName := strings.Join(rest, " ")

	ctx, cancel := hm.context()
	defer cancel()

	g, snap, err := hm.desk.Negotiator(ctx)
	if err != nil {
		hm.replyError(s, m.ChannelID, "load league", err)
		return
	}

	p, ok := snap.Players().Lookup(playerName)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No player found matching '%s'", playerName))
		return
	}

	teamName := flags["team"]
	if teamName == "" && p.TeamID >= 0 && snap.State().Phase == models.PhaseResignPlayers {
		if own, err := snap.Team(p.TeamID); err == nil {
			teamName = own.Abbrev
		}
	}
	team, err := hm.resolveTeam(snap, teamName)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, err.Error()+" with --team=<abbrev>")
		return
	}

	now := time.Now()
	var session *models.Negotiation
	if hm.negotiations != nil {
		existing, found, err := hm.negotiations.FindOpen(p.ID, team.ID, now)
		if err != nil {
			hm.logger.Errorf("Failed to read negotiations: %v", err)
		} else if found {
			session = existing
		}
	}
	if session == nil {
		session, err = g.Open(p.ID, team.ID, m.Author.ID, m.ChannelID, hm.config.NegotiationTTL, now)
		if errors.Is(err, negotiation.ErrNotNegotiable) {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("%s is not a free agent, so the %s cannot negotiate with him right now.",
				p.Name, team.FullName()))
			return
		}
		if err != nil {
			hm.replyError(s, m.ChannelID, "open negotiation", err)
			return
		}
		if hm.negotiations != nil {
			if err := hm.negotiations.Add(session); err != nil {
				hm.logger.Errorf("Failed to save negotiation %s: %v", session.ID, err)
			}
		}
	}

	offers, err := g.ContractOptions(p.ID, team.ID, session.Anchor)
	if err != nil {
		hm.replyError(s, m.ChannelID, "build contract options", err)
		return
	}
	s.ChannelMessageSendEmbed(m.ChannelID, buildContractEmbed(p, team, session, offers))
}

// buildContractEmbed shows the contract menu; disabled rows carry their reason
func buildContractEmbed(p models.Player, team models.Team, session *models.Negotiation, offers []models.ContractOffer) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Negotiation: %s and the %s", p.Name, team.FullName()),
		Color: colorNeutral,
		Description: fmt.Sprintf("%s, %d yo, %d ovr / %d pot\nAsking for %s over %d year%s",
			p.Position, p.Age, p.Ratings.Ovr, p.Ratings.Pot,
			models.FormatMoney(session.Anchor.Amount), session.Anchor.Years, pluralize(session.Anchor.Years)),
	}

	var lines []string
	available := 0
	for _, o := range offers {
		line := fmt.Sprintf("%d yr%s, %s/yr thru %d", o.Years, pluralize(o.Years), models.FormatMoney(o.Amount), o.Exp)
		if o.IsAnchor {
			line = "**" + line + "**"
		}
		if o.DisabledReason != "" {
			line = "~~" + line + "~~ " + o.DisabledReason
		} else {
			available++
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "No contract options")
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: fmt.Sprintf("Options (%d available)", available), Value: strings.Join(lines, "\n")},
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Talks expire %s", session.EndTime.UTC().Format("Jan 2 15:04 MST")),
	}
	return embed
}
