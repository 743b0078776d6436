package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// header maps lower-cased column names to indexes.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) getInt(row []string, name string) (int, error) {
	v := h.get(row, name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return n, nil
}

func (h header) getBool(row []string, name string) bool {
	switch strings.ToLower(h.get(row, name)) {
	case "true", "yes", "y", "x", "1":
		return true
	}
	return false
}

func (h header) require(names ...string) error {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}
	return nil
}

// ParseSettings reads "setting,value" rows over the default league config.
func ParseSettings(rows [][]string) (models.LeagueConfig, models.GameState, error) {
	cfg := models.DefaultLeagueConfig()
	var state models.GameState

	ints := map[string]*int{
		"season":              &state.Season,
		"games_played":        &state.GamesPlayed,
		"min_roster_size":     &cfg.MinRosterSize,
		"max_roster_size":     &cfg.MaxRosterSize,
		"min_contract_length": &cfg.MinContractLength,
		"max_contract_length": &cfg.MaxContractLength,
		"min_contract":        &cfg.MinContract,
		"max_contract":        &cfg.MaxContract,
		"salary_cap":          &cfg.SalaryCap,
		"num_draft_rounds":    &cfg.NumDraftRounds,
	}

	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		switch key {
		case "phase":
			phase, err := parsePhase(value)
			if err != nil {
				return cfg, state, err
			}
			state.Phase = phase
		case "salary_cap_type":
			cfg.SalaryCapType = strings.ToLower(value)
		case "challenge_no_free_agents":
			cfg.ChallengeNoFreeAgents = strings.EqualFold(value, "true")
		default:
			target, ok := ints[key]
			if !ok {
				continue
			}
			n, err := strconv.Atoi(strings.ReplaceAll(value, ",", ""))
			if err != nil {
				return cfg, state, fmt.Errorf("setting %s: %w", key, err)
			}
			*target = n
		}
	}
	if state.Season == 0 {
		return cfg, state, fmt.Errorf("settings tab has no season")
	}
	return cfg, state, nil
}

func parsePhase(value string) (models.Phase, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return models.Phase(n), nil
	}
	for p := models.PhasePreseason; p <= models.PhaseFreeAgency; p++ {
		if strings.EqualFold(p.String(), value) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", value)
}

// ParseTeams reads the teams tab: tid, abbrev, region, name, strategy and an
// optional dead_money column.
func ParseTeams(rows [][]string) ([]models.Team, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("insufficient data in teams sheet")
	}
	h := newHeader(rows[0])
	if err := h.require("tid", "abbrev", "strategy"); err != nil {
		return nil, fmt.Errorf("teams sheet: %w", err)
	}

	var teams []models.Team
	for i, row := range rows[1:] {
		if h.get(row, "abbrev") == "" {
			continue
		}
		tid, err := h.getInt(row, "tid")
		if err != nil {
			return nil, fmt.Errorf("teams row %d: %w", i+2, err)
		}
		dead, err := h.getInt(row, "dead_money")
		if err != nil {
			return nil, fmt.Errorf("teams row %d: %w", i+2, err)
		}
		strategy := models.Strategy(strings.ToLower(h.get(row, "strategy")))
		if strategy != models.StrategyContending && strategy != models.StrategyRebuilding {
			return nil, fmt.Errorf("teams row %d: unknown strategy %q", i+2, strategy)
		}
		teams = append(teams, models.Team{
			ID:        tid,
			Abbrev:    h.get(row, "abbrev"),
			Region:    h.get(row, "region"),
			Name:      h.get(row, "name"),
			Strategy:  strategy,
			DeadMoney: dead,
		})
	}
	return teams, nil
}

// teamRefs resolves a team cell, which may hold a team ID, an abbreviation
// or FA for free agents.
type teamRefs map[string]int

func newTeamRefs(teams []models.Team) teamRefs {
	refs := teamRefs{"fa": models.FreeAgentTeamID, "": models.FreeAgentTeamID}
	for _, t := range teams {
		refs[strings.ToLower(t.Abbrev)] = t.ID
		refs[strconv.Itoa(t.ID)] = t.ID
	}
	return refs
}

func (r teamRefs) resolve(cell string) (int, error) {
	if tid, ok := r[strings.ToLower(strings.TrimSpace(cell))]; ok {
		return tid, nil
	}
	return 0, fmt.Errorf("unknown team %q", cell)
}

// ParsePlayers reads the players tab. Rows that cannot be parsed are skipped
// and described in the second return value.
func ParsePlayers(rows [][]string, teams []models.Team) ([]models.Player, []string) {
	if len(rows) < 2 {
		return nil, nil
	}
	h := newHeader(rows[0])
	refs := newTeamRefs(teams)

	var players []models.Player
	var skipped []string
	for i, row := range rows[1:] {
		name := h.get(row, "name")
		if name == "" {
			continue
		}
		p, err := parsePlayer(h, row, refs)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("row %d (%s): %v", i+2, name, err))
			continue
		}
		players = append(players, p)
	}
	return players, skipped
}

func parsePlayer(h header, row []string, refs teamRefs) (models.Player, error) {
	p := models.Player{
		Name:             h.get(row, "name"),
		Position:         h.get(row, "pos"),
		Untradable:       h.getBool(row, "untradable"),
		UntradableReason: h.get(row, "untradable_reason"),
		Mood:             models.Mood{Refuses: h.getBool(row, "refuses")},
	}
	var err error
	if p.TeamID, err = refs.resolve(h.get(row, "team")); err != nil {
		return p, err
	}
	fields := []struct {
		name string
		dst  *int
	}{
		{"pid", &p.ID},
		{"age", &p.Age},
		{"ovr", &p.Ratings.Ovr},
		{"pot", &p.Ratings.Pot},
		{"salary", &p.Contract.Amount},
		{"exp", &p.Contract.Exp},
	}
	for _, f := range fields {
		if *f.dst, err = h.getInt(row, f.name); err != nil {
			return p, err
		}
	}
	if p.ID == 0 {
		return p, fmt.Errorf("missing pid")
	}
	if p.Ratings.Pot < p.Ratings.Ovr {
		p.Ratings.Pot = p.Ratings.Ovr
	}
	for _, trait := range strings.Fields(h.get(row, "traits")) {
		p.Mood.Traits = append(p.Mood.Traits, strings.ToUpper(trait))
	}
	return p, nil
}

// ParsePicks reads the picks tab: dpid, season, round, original and owner,
// where the last two are team references.
func ParsePicks(rows [][]string, teams []models.Team) ([]models.DraftPick, error) {
	if len(rows) < 2 {
		return nil, nil
	}
	h := newHeader(rows[0])
	refs := newTeamRefs(teams)
	if err := h.require("dpid", "season", "round", "original"); err != nil {
		return nil, fmt.Errorf("picks sheet: %w", err)
	}

	var picks []models.DraftPick
	for i, row := range rows[1:] {
		if h.get(row, "dpid") == "" {
			continue
		}
		var dp models.DraftPick
		var err error
		for _, f := range []struct {
			name string
			dst  *int
		}{{"dpid", &dp.ID}, {"season", &dp.Season}, {"round", &dp.Round}} {
			if *f.dst, err = h.getInt(row, f.name); err != nil {
				return nil, fmt.Errorf("picks row %d: %w", i+2, err)
			}
		}
		if dp.OriginalTeamID, err = refs.resolve(h.get(row, "original")); err != nil {
			return nil, fmt.Errorf("picks row %d: %w", i+2, err)
		}
		dp.TeamID = dp.OriginalTeamID
		if owner := h.get(row, "owner"); owner != "" {
			if dp.TeamID, err = refs.resolve(owner); err != nil {
				return nil, fmt.Errorf("picks row %d: %w", i+2, err)
			}
		}
		picks = append(picks, dp)
	}
	return picks, nil
}
