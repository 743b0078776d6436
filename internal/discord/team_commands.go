package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// TeamFilters represents filtering options for team roster
type TeamFilters struct {
	Position string // Position to filter by
	MinAge   int    // Minimum age
	MaxAge   int    // Maximum age
}

func (f TeamFilters) active() bool {
	return f.Position != "" || f.MinAge > 0 || f.MaxAge > 0
}

// parseTeamArgs separates the team name from --position and --age filters
func parseTeamArgs(args []string) (string, TeamFilters) {
	rest, flags := splitFlags(args)
	filters := TeamFilters{}

	for key, value := range flags {
		switch key {
		case "position", "pos":
			filters.Position = strings.ToUpper(value)
		case "age":
			// Parse age range (e.g., "20-25" or "25+")
			if strings.Contains(value, "-") {
				ageParts := strings.Split(value, "-")
				if len(ageParts) == 2 {
					fmt.Sscanf(ageParts[0], "%d", &filters.MinAge)
					fmt.Sscanf(ageParts[1], "%d", &filters.MaxAge)
				}
			} else if strings.HasSuffix(value, "+") {
				fmt.Sscanf(value, "%d+", &filters.MinAge)
				filters.MaxAge = 99
			} else {
				var age int
				fmt.Sscanf(value, "%d", &age)
				filters.MinAge = age
				filters.MaxAge = age
			}
		}
	}
	return strings.Join(rest, " "), filters
}

// handleTeam displays the roster for a specific team with optional filters
func (hm *HandlerManager) handleTeam(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	teamName, filters := parseTeamArgs(args)

	ctx, cancel := hm.context()
	defer cancel()

	snap, ok := hm.snapshot(ctx, s, m.ChannelID)
	if !ok {
		return
	}

	team, err := hm.resolveTeam(snap, teamName)
	if err != nil {
		msg := err.Error()
		if suggestions := findSimilarTeams(teamName, snap.Teams()); len(suggestions) > 0 {
			msg += "\n\nDid you mean:\n"
			for _, t := range suggestions {
				msg += fmt.Sprintf("• %s (%s)\n", t.FullName(), t.Abbrev)
			}
		}
		s.ChannelMessageSend(m.ChannelID, msg)
		return
	}

	roster, err := snap.TeamRoster(team.ID)
	if err != nil {
		hm.replyError(s, m.ChannelID, "load roster", err)
		return
	}
	fin, err := snap.FinancialState(team.ID)
	if err != nil {
		hm.replyError(s, m.ChannelID, "load payroll", err)
		return
	}

	filtered := applyTeamFilters(models.PlayerList(roster.Players), filters)
	if len(filtered) == 0 {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No players found for %s with the specified filters", team.FullName()))
		return
	}

	abbrevs := make(map[int]string)
	for _, t := range snap.Teams() {
		abbrevs[t.ID] = t.Abbrev
	}
	embed := buildTeamRosterEmbed(team, filtered, roster.Picks, fin, snap.State(), filters, abbrevs)
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

// applyTeamFilters applies the specified filters to the player list
func applyTeamFilters(players models.PlayerList, filters TeamFilters) models.PlayerList {
	filtered := players

	if filters.Position != "" {
		filtered = filtered.FilterByPosition(filters.Position)
	}

	if filters.MinAge > 0 || filters.MaxAge > 0 {
		var ageFiltered models.PlayerList
		for _, p := range filtered {
			if filters.MinAge > 0 && p.Age < filters.MinAge {
				continue
			}
			if filters.MaxAge > 0 && p.Age > filters.MaxAge {
				continue
			}
			ageFiltered = append(ageFiltered, p)
		}
		filtered = ageFiltered
	}

	return filtered
}

var positionOrder = []string{"C", "1B", "2B", "3B", "SS", "OF", "DH", "SP", "RP"}

// buildTeamRosterEmbed creates a rich embed for team roster
func buildTeamRosterEmbed(team models.Team, players models.PlayerList, picks []models.DraftPick, fin models.FinancialState, state models.GameState, filters TeamFilters, abbrevs map[int]string) *discordgo.MessageEmbed {
	groups := players.GroupByPosition()
	for pos := range groups {
		groups[pos].SortBySalary()
	}

	filterDesc := ""
	if filters.active() {
		var filterParts []string
		if filters.Position != "" {
			filterParts = append(filterParts, fmt.Sprintf("Position: %s", filters.Position))
		}
		if filters.MinAge > 0 || filters.MaxAge > 0 {
			if filters.MinAge == filters.MaxAge {
				filterParts = append(filterParts, fmt.Sprintf("Age: %d", filters.MinAge))
			} else if filters.MaxAge == 99 {
				filterParts = append(filterParts, fmt.Sprintf("Age: %d+", filters.MinAge))
			} else {
				filterParts = append(filterParts, fmt.Sprintf("Age: %d-%d", filters.MinAge, filters.MaxAge))
			}
		}
		filterDesc = "\n*Filters: " + strings.Join(filterParts, ", ") + "*"
	}

	capLine := "No cap"
	if fin.CapFigure > 0 {
		room := fin.CapFigure - fin.Payroll
		capType := "soft"
		if fin.HardCap {
			capType = "hard"
		}
		capLine = fmt.Sprintf("Cap %s (%s) | Room %s", models.FormatMoney(fin.CapFigure), capType, models.FormatMoney(room))
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s Roster", team.FullName()),
		Color: colorNeutral,
		Description: fmt.Sprintf("**%d Players | %d Payroll: %s**\n%s | Strategy: %s%s",
			len(players), state.Season, models.FormatMoney(fin.Payroll), capLine, team.Strategy, filterDesc),
		Fields: []*discordgo.MessageEmbedField{},
	}

	seen := make(map[string]bool)
	addGroup := func(pos string) {
		group, exists := groups[pos]
		seen[pos] = true
		if !exists || len(group) == 0 {
			return
		}
		var lines []string
		for _, p := range group {
			lines = append(lines, fmt.Sprintf("**%s** (%d, %d ovr) - %s thru %d",
				p.Name, p.Age, p.Ratings.Ovr, models.FormatMoney(p.Contract.Amount), p.Contract.Exp))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", pos, len(group)),
			Value:  strings.Join(lines, "\n"),
			Inline: true,
		})
	}
	for _, pos := range positionOrder {
		addGroup(pos)
	}
	var others []string
	for pos := range groups {
		if !seen[pos] {
			others = append(others, pos)
		}
	}
	sort.Strings(others)
	for _, pos := range others {
		addGroup(pos)
	}

	if len(picks) > 0 && !filters.active() {
		var lines []string
		for _, dp := range picks {
			line := fmt.Sprintf("%d round %d", dp.Season, dp.Round)
			if dp.OriginalTeamID != team.ID {
				line += fmt.Sprintf(" (via %s)", abbrevs[dp.OriginalTeamID])
			}
			lines = append(lines, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Draft Picks (%d)", len(picks)),
			Value: strings.Join(lines, "\n"),
		})
	}

	stats := players.GetStats(state)
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Average Salary: %s | Average Age: %.1f | Expiring: %d",
			models.FormatMoney(stats.AverageSalary), stats.AverageAge, stats.Expiring),
	}

	return embed
}

// findSimilarTeams finds teams with similar names
func findSimilarTeams(search string, teams []models.Team) []models.Team {
	searchLower := strings.ToLower(search)
	if searchLower == "" {
		return nil
	}
	var matches []models.Team

	for _, team := range teams {
		for _, name := range []string{team.Abbrev, team.FullName()} {
			nameLower := strings.ToLower(name)
			if strings.Contains(nameLower, searchLower) || strings.Contains(searchLower, nameLower) {
				matches = append(matches, team)
				break
			}
		}
	}

	// Limit to 5 suggestions
	if len(matches) > 5 {
		matches = matches[:5]
	}

	return matches
}
