package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/ulb-tradedesk/internal/desk"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/trade"
)

const (
	colorNeutral = 0x3498db
	colorGood    = 0x2ecc71
	colorBad     = 0xe74c3c
)

// handleTrade checks a proposed trade, or balances it with -fix
func (hm *HandlerManager) handleTrade(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		helpMsg := "Usage: `!trade <team1 assets> for <team2 assets>`\n" +
			"Example: `!trade Juan Soto, NYY 2026 1st for Aaron Judge`\n" +
			"A team abbreviation on its own asks for nothing back: `!trade Judge for BOS`\n" +
			"Add `-fix` to have the desk balance the trade until both teams accept"
		s.ChannelMessageSend(m.ChannelID, helpMsg)
		return
	}

	fix := false
	if args[0] == "-fix" || args[0] == "--fix" {
		fix = true
		args = args[1:]
		if len(args) == 0 {
			s.ChannelMessageSend(m.ChannelID, "Please specify a trade after the -fix flag.")
			return
		}
	}

	ctx, cancel := hm.context()
	defer cancel()

	snap, ok := hm.snapshot(ctx, s, m.ChannelID)
	if !ok {
		return
	}
	proposal, err := desk.ParseProposal(snap, strings.Join(args, " "))
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, describeParseError(err))
		return
	}

	if !fix {
		summary, err := hm.desk.Value(ctx, proposal)
		if err != nil {
			hm.replyError(s, m.ChannelID, "analyze trade", err)
			return
		}
		s.ChannelMessageSendEmbed(m.ChannelID, buildTradeEmbed(summary, "Trade Analysis"))
		return
	}

	result, err := hm.desk.MakeItWork(ctx, proposal, trade.DefaultOptions())
	if err != nil {
		hm.replyError(s, m.ChannelID, "balance trade", err)
		return
	}
	if result == nil {
		s.ChannelMessageSend(m.ChannelID, "Couldn't find a version of this trade that both teams would accept.")
		return
	}
	s.ChannelMessageSendEmbed(m.ChannelID, buildTradeEmbed(*result, "Balanced Trade"))
}

// handleValue values a single player, or a trade when given one
func (hm *HandlerManager) handleValue(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!value <player>` or `!value <assets> for <assets>`")
		return
	}

	ctx, cancel := hm.context()
	defer cancel()

	text := strings.Join(args, " ")
	if strings.Contains(strings.ToLower(text), " for ") {
		snap, ok := hm.snapshot(ctx, s, m.ChannelID)
		if !ok {
			return
		}
		proposal, err := desk.ParseProposal(snap, text)
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, describeParseError(err))
			return
		}
		summary, err := hm.desk.Value(ctx, proposal)
		if err != nil {
			hm.replyError(s, m.ChannelID, "value trade", err)
			return
		}
		s.ChannelMessageSendEmbed(m.ChannelID, buildTradeEmbed(summary, "Trade Value"))
		return
	}

	engine, snap, err := hm.desk.Engine(ctx)
	if err != nil {
		hm.replyError(s, m.ChannelID, "load league", err)
		return
	}
	p, ok := snap.Players().Lookup(text)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No player found matching '%s'", text))
		return
	}

	v := engine.Valuer()
	report := playerReport{Player: p, MarketWorth: v.MarketWorth(p), TeamName: "Free Agent"}
	if p.TeamID >= 0 {
		team, err := snap.Team(p.TeamID)
		if err != nil {
			hm.replyError(s, m.ChannelID, "value player", err)
			return
		}
		value, err := v.PlayerValue(p, p.TeamID)
		if err != nil {
			hm.replyError(s, m.ChannelID, "value player", err)
			return
		}
		report.TeamName = team.FullName()
		report.Value = value
		report.HasValue = true
	}
	s.ChannelMessageSendEmbed(m.ChannelID, buildPlayerValueEmbed(report))
}

func (hm *HandlerManager) replyError(s *discordgo.Session, channelID, action string, err error) {
	var invalid *models.InvalidAssetError
	if errors.As(err, &invalid) {
		s.ChannelMessageSend(channelID, "Invalid trade: "+invalid.Error())
		return
	}
	hm.logger.Errorf("Failed to %s: %v", action, err)
	s.ChannelMessageSend(channelID, fmt.Sprintf("Failed to %s: %v", action, err))
}

func describeParseError(err error) string {
	var perr *desk.ParseError
	if errors.As(err, &perr) && len(perr.NotFound) > 0 {
		return "**Not found:** " + strings.Join(perr.NotFound, ", ")
	}
	return "Invalid trade: " + err.Error()
}

type playerReport struct {
	Player      models.Player
	TeamName    string
	Value       float64
	HasValue    bool
	MarketWorth int
}

func buildPlayerValueEmbed(r playerReport) *discordgo.MessageEmbed {
	p := r.Player
	embed := &discordgo.MessageEmbed{
		Title: p.Name,
		Color: colorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Team", Value: r.TeamName, Inline: true},
			{Name: "Position", Value: p.Position, Inline: true},
			{Name: "Age", Value: fmt.Sprintf("%d", p.Age), Inline: true},
			{Name: "Ratings", Value: fmt.Sprintf("%d ovr / %d pot", p.Ratings.Ovr, p.Ratings.Pot), Inline: true},
			{Name: "Contract", Value: fmt.Sprintf("%s thru %d", models.FormatMoney(p.Contract.Amount), p.Contract.Exp), Inline: true},
			{Name: "Market Worth", Value: models.FormatMoney(r.MarketWorth), Inline: true},
		},
	}
	if r.HasValue {
		embed.Description = fmt.Sprintf("Worth **%.1f** to the %s", r.Value, r.TeamName)
	}
	if p.Untradable {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Untradable",
			Value: p.UntradableReason,
		})
	}
	return embed
}

// buildTradeEmbed renders a trade summary with one column per team
func buildTradeEmbed(summary models.TradeSummary, title string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: tradeColor(summary),
	}

	sides := summary.Teams
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   fmt.Sprintf("%s sends (%d asset%s)", sides[0].Abbrev, len(sides[0].Leaving), pluralize(len(sides[0].Leaving))),
			Value:  describeAssets(sides[0].Leaving),
			Inline: true,
		},
		{
			Name:   "⇄",
			Value:  "for",
			Inline: true,
		},
		{
			Name:   fmt.Sprintf("%s sends (%d asset%s)", sides[1].Abbrev, len(sides[1].Leaving), pluralize(len(sides[1].Leaving))),
			Value:  describeAssets(sides[1].Leaving),
			Inline: true,
		},
	}

	var impact []string
	for _, side := range sides {
		verdict := "accepts"
		if side.ValueChange <= 0 {
			verdict = "declines"
		}
		impact = append(impact, fmt.Sprintf("**%s** %s (value %+.1f)\nPayroll: %s → %s (%s)",
			side.Abbrev, verdict, side.ValueChange,
			models.FormatMoney(side.PayrollBefore), models.FormatMoney(side.PayrollAfter),
			signedMoney(side.PayrollAfter-side.PayrollBefore)))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Team Impact",
		Value:  strings.Join(impact, "\n\n"),
		Inline: false,
	})

	if len(summary.Warnings) > 0 {
		var lines []string
		for _, w := range summary.Warnings {
			marker := "⚠️"
			if w.Blocking {
				marker = "⛔"
			}
			lines = append(lines, fmt.Sprintf("%s %s", marker, w.Message))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Warnings",
			Value: strings.Join(lines, "\n"),
		})
	}

	if summary.LastResort {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Last-resort offer"}
	}
	return embed
}

func tradeColor(summary models.TradeSummary) int {
	if models.HasBlocking(summary.Warnings) {
		return colorBad
	}
	if summary.Teams[0].ValueChange > 0 && summary.Teams[1].ValueChange > 0 {
		return colorGood
	}
	return colorNeutral
}

func describeAssets(assets []models.AssetSummary) string {
	if len(assets) == 0 {
		return "Nothing"
	}
	lines := make([]string, 0, len(assets))
	for _, a := range assets {
		line := fmt.Sprintf("• **%s**", a.Name)
		if a.Detail != "" {
			line += "\n  " + a.Detail
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func signedMoney(thousands int) string {
	if thousands > 0 {
		return "+" + models.FormatMoney(thousands)
	}
	return models.FormatMoney(thousands)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
