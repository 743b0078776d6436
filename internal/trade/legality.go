package trade

import (
	"fmt"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// Over a soft cap, a team may take back at most this share of the salary it
// sends out, plus softCapCushion, before the trade is flagged.
const (
	softCapRatio   = 1.25
	softCapCushion = 100
)

// Checker validates proposals against roster and payroll rules. It reports
// problems as warnings and never changes anything.
type Checker struct {
	store league.Store
}

func NewChecker(store league.Store) *Checker {
	return &Checker{store: store}
}

type sideFlow struct {
	players   []models.Player
	picks     []models.DraftPick
	salaryOut int
}

// Check returns the legality warnings for p, side 0 first. An empty list
// means the trade is legal. Assets that do not exist or are not owned by the
// side listing them produce an *models.InvalidAssetError instead.
func (c *Checker) Check(p models.TradeProposal) ([]models.Warning, error) {
	if p.Teams[0].TeamID == p.Teams[1].TeamID {
		return nil, fmt.Errorf("team %d cannot trade with itself", p.Teams[0].TeamID)
	}

	var warnings []models.Warning
	var flows [2]sideFlow
	for i, side := range p.Teams {
		warnings = append(warnings, duplicateWarnings(side)...)
		flow, err := c.flow(side)
		if err != nil {
			return nil, err
		}
		flows[i] = flow
	}

	for i, side := range p.Teams {
		other := flows[1-i]
		warnings = append(warnings, untradableWarnings(side.TeamID, flows[i].players)...)

		w, err := c.rosterWarnings(side.TeamID, len(flows[i].players), len(other.players))
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)

		w, err = c.capWarnings(side.TeamID, flows[i].salaryOut, other.salaryOut)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}
	return warnings, nil
}

// flow resolves a side's included assets, checking ownership. Duplicate IDs
// are resolved once.
func (c *Checker) flow(side models.TeamSide) (sideFlow, error) {
	var f sideFlow
	seen := make(map[int]bool)
	for _, pid := range side.PlayerIDs {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		pl, err := c.store.Player(pid)
		if err != nil {
			return f, &models.InvalidAssetError{Kind: models.AssetPlayer, ID: pid, TeamID: side.TeamID, Reason: "does not exist"}
		}
		if pl.TeamID != side.TeamID {
			return f, &models.InvalidAssetError{Kind: models.AssetPlayer, ID: pid, TeamID: side.TeamID, Reason: fmt.Sprintf("owned by team %d", pl.TeamID)}
		}
		f.players = append(f.players, pl)
		f.salaryOut += pl.Contract.Amount
	}

	seen = make(map[int]bool)
	for _, dpid := range side.PickIDs {
		if seen[dpid] {
			continue
		}
		seen[dpid] = true
		dp, err := c.store.Pick(dpid)
		if err != nil {
			return f, &models.InvalidAssetError{Kind: models.AssetPick, ID: dpid, TeamID: side.TeamID, Reason: "does not exist"}
		}
		if dp.TeamID != side.TeamID {
			return f, &models.InvalidAssetError{Kind: models.AssetPick, ID: dpid, TeamID: side.TeamID, Reason: fmt.Sprintf("owned by team %d", dp.TeamID)}
		}
		f.picks = append(f.picks, dp)
	}
	return f, nil
}

func duplicateWarnings(side models.TeamSide) []models.Warning {
	var warnings []models.Warning
	check := func(kind string, ids []int) {
		counts := make(map[int]int)
		for _, id := range ids {
			counts[id]++
			if counts[id] == 2 {
				warnings = append(warnings, models.Warning{
					TeamID:   side.TeamID,
					Code:     models.WarningDuplicateAsset,
					Message:  fmt.Sprintf("%s %d is listed more than once", kind, id),
					Blocking: true,
				})
			}
		}
	}
	check("player", side.PlayerIDs)
	check("draft pick", side.PickIDs)
	return warnings
}

func untradableWarnings(tid int, players []models.Player) []models.Warning {
	var warnings []models.Warning
	for _, p := range players {
		if !p.Untradable {
			continue
		}
		msg := fmt.Sprintf("%s is untradable", p.Name)
		if p.UntradableReason != "" {
			msg = fmt.Sprintf("%s: %s", p.Name, p.UntradableReason)
		}
		warnings = append(warnings, models.Warning{
			TeamID:   tid,
			Code:     models.WarningUntradable,
			Message:  msg,
			Blocking: true,
		})
	}
	return warnings
}

func (c *Checker) rosterWarnings(tid, playersOut, playersIn int) ([]models.Warning, error) {
	roster, err := c.store.TeamRoster(tid)
	if err != nil {
		return nil, err
	}
	team, err := c.store.Team(tid)
	if err != nil {
		return nil, err
	}
	cfg := c.store.LeagueConfig()
	after := len(roster.Players) - playersOut + playersIn

	switch {
	case cfg.MaxRosterSize > 0 && after > cfg.MaxRosterSize:
		return []models.Warning{{
			TeamID:   tid,
			Code:     models.WarningRosterOverMax,
			Message:  fmt.Sprintf("%s would have %d players, more than the maximum of %d", team.Abbrev, after, cfg.MaxRosterSize),
			Blocking: true,
			Excess:   after - cfg.MaxRosterSize,
		}}, nil
	case after < cfg.MinRosterSize:
		return []models.Warning{{
			TeamID:   tid,
			Code:     models.WarningRosterUnderMin,
			Message:  fmt.Sprintf("%s would have %d players, fewer than the minimum of %d", team.Abbrev, after, cfg.MinRosterSize),
			Blocking: true,
			Excess:   cfg.MinRosterSize - after,
		}}, nil
	}
	return nil, nil
}

func (c *Checker) capWarnings(tid, salaryOut, salaryIn int) ([]models.Warning, error) {
	cfg := c.store.LeagueConfig()
	if cfg.SalaryCapType == models.CapNone {
		return nil, nil
	}
	fin, err := c.store.FinancialState(tid)
	if err != nil {
		return nil, err
	}
	team, err := c.store.Team(tid)
	if err != nil {
		return nil, err
	}
	after := fin.Payroll - salaryOut + salaryIn
	if after <= fin.CapFigure {
		return nil, nil
	}

	if fin.HardCap {
		if after <= fin.Payroll {
			return nil, nil
		}
		return []models.Warning{{
			TeamID:   tid,
			Code:     models.WarningHardCap,
			Message:  fmt.Sprintf("%s would be over the hard cap by %s", team.Abbrev, models.FormatMoney(after-fin.CapFigure)),
			Blocking: true,
			Excess:   after - fin.CapFigure,
		}}, nil
	}

	allowed := int(float64(salaryOut)*softCapRatio) + softCapCushion
	if salaryIn <= allowed {
		return nil, nil
	}
	msg := fmt.Sprintf("%s is over the cap and takes back %s in salary for %s sent out (limit %s)",
		team.Abbrev, models.FormatMoney(salaryIn), models.FormatMoney(salaryOut), models.FormatMoney(allowed))
	return []models.Warning{{
		TeamID:  tid,
		Code:    models.WarningSoftCap,
		Message: msg,
		Excess:  salaryIn - allowed,
	}}, nil
}
