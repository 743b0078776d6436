package models

import "strings"

// Pseudo-team IDs for players that are not on a league roster.
const (
	FreeAgentTeamID = -1
	ProspectTeamID  = -2
	RetiredTeamID   = -3
)

// Strategy is a team's competitive timeline.
type Strategy string

const (
	StrategyContending Strategy = "contending"
	StrategyRebuilding Strategy = "rebuilding"
)

// Phase is the point of the season the league is in.
type Phase int

const (
	PhasePreseason Phase = iota
	PhaseRegularSeason
	PhasePlayoffs
	PhaseDraftLottery
	PhaseDraft
	PhaseAfterDraft
	PhaseResignPlayers
	PhaseFreeAgency
)

var phaseNames = []string{
	"preseason", "regular season", "playoffs", "draft lottery",
	"draft", "after draft", "re-sign players", "free agency",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Ratings holds the ratings the valuation cares about, both on a 0-100 scale.
type Ratings struct {
	Ovr int `json:"ovr" yaml:"ovr"`
	Pot int `json:"pot" yaml:"pot"`
}

// Contract is a player's current deal. Amount is in thousands of dollars per
// season; Exp is the last season the contract covers.
type Contract struct {
	Amount int `json:"amount" yaml:"amount"`
	Exp    int `json:"exp" yaml:"exp"`
}

// ContractTerms is a (years, amount) pair used as a negotiation anchor.
type ContractTerms struct {
	Years  int `json:"years" yaml:"years"`
	Amount int `json:"amount" yaml:"amount"`
}

// Mood traits.
const (
	TraitWinning = "W"
	TraitLoyalty = "L"
	TraitMoney   = "$"
)

// Mood is the player's negotiation context.
type Mood struct {
	Refuses bool     `json:"refuses,omitempty" yaml:"refuses,omitempty"`
	Traits  []string `json:"traits,omitempty" yaml:"traits,omitempty"`
}

func (m Mood) Has(trait string) bool {
	for _, t := range m.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// Player is a rostered, free-agent or prospect player.
type Player struct {
	ID               int      `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	TeamID           int      `json:"tid" yaml:"tid"`
	Age              int      `json:"age" yaml:"age"`
	Position         string   `json:"pos" yaml:"pos"`
	Ratings          Ratings  `json:"ratings" yaml:"ratings"`
	Contract         Contract `json:"contract" yaml:"contract"`
	Untradable       bool     `json:"untradable,omitempty" yaml:"untradable,omitempty"`
	UntradableReason string   `json:"untradableMsg,omitempty" yaml:"untradable_reason,omitempty"`
	Mood             Mood     `json:"mood" yaml:"mood"`
}

// PrimaryPosition returns the first listed position, with outfield spots
// grouped into OF.
func (p *Player) PrimaryPosition() string {
	return NormalizePosition(p.Position)
}

// NormalizePosition maps a position string to the group used for roster depth.
func NormalizePosition(pos string) string {
	primary := strings.ToUpper(strings.TrimSpace(strings.Split(pos, ",")[0]))
	switch primary {
	case "LF", "CF", "RF":
		return "OF"
	case "":
		return "UT"
	}
	return primary
}

// YearsRemaining returns how many seasons are left on the contract, counting
// the current one until the regular season is over.
func (p *Player) YearsRemaining(state GameState) int {
	years := p.Contract.Exp - state.Season
	if state.Phase <= PhasePlayoffs {
		years++
	}
	if years < 0 {
		return 0
	}
	return years
}

// DraftPick is a future selection. ID, Season, Round and OriginalTeamID never
// change; TeamID is the current owner.
type DraftPick struct {
	ID             int `json:"dpid" yaml:"id"`
	Season         int `json:"season" yaml:"season"`
	Round          int `json:"round" yaml:"round"`
	OriginalTeamID int `json:"originalTid" yaml:"original_tid"`
	TeamID         int `json:"tid" yaml:"tid"`
}

// YearsInFuture returns how many drafts away the pick is. Picks in the
// current season's draft are 0 until that draft has happened.
func (dp *DraftPick) YearsInFuture(state GameState) int {
	years := dp.Season - state.Season
	if state.Phase > PhaseDraft {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Team is a league franchise.
type Team struct {
	ID        int      `json:"tid" yaml:"id"`
	Abbrev    string   `json:"abbrev" yaml:"abbrev"`
	Region    string   `json:"region" yaml:"region"`
	Name      string   `json:"name" yaml:"name"`
	Strategy  Strategy `json:"strategy" yaml:"strategy"`
	DeadMoney int      `json:"deadMoney,omitempty" yaml:"dead_money,omitempty"`
}

func (t Team) FullName() string {
	return strings.TrimSpace(t.Region + " " + t.Name)
}

// Roster is a team's players and owned picks.
type Roster struct {
	Players []Player    `json:"players"`
	Picks   []DraftPick `json:"picks"`
}

// FinancialState is the payroll picture used for cap legality.
type FinancialState struct {
	Payroll   int  `json:"payroll"`
	CapFigure int  `json:"capFigure"`
	HardCap   bool `json:"hardCap"`
}

// Salary cap types.
const (
	CapHard = "hard"
	CapSoft = "soft"
	CapNone = "none"
)

// LeagueConfig holds the league-wide rules. Money is in thousands.
type LeagueConfig struct {
	NumTeams              int    `json:"numTeams" yaml:"num_teams"`
	MinRosterSize         int    `json:"minRosterSize" yaml:"min_roster_size"`
	MaxRosterSize         int    `json:"maxRosterSize" yaml:"max_roster_size"`
	MinContractLength     int    `json:"minContractLength" yaml:"min_contract_length"`
	MaxContractLength     int    `json:"maxContractLength" yaml:"max_contract_length"`
	MinContract           int    `json:"minContract" yaml:"min_contract"`
	MaxContract           int    `json:"maxContract" yaml:"max_contract"`
	SalaryCap             int    `json:"salaryCap" yaml:"salary_cap"`
	SalaryCapType         string `json:"salaryCapType" yaml:"salary_cap_type"`
	NumDraftRounds        int    `json:"numDraftRounds" yaml:"num_draft_rounds"`
	ChallengeNoFreeAgents bool   `json:"challengeNoFreeAgents,omitempty" yaml:"challenge_no_free_agents,omitempty"`
}

// DefaultLeagueConfig mirrors a standard 30-team league with 26-man rosters.
func DefaultLeagueConfig() LeagueConfig {
	return LeagueConfig{
		NumTeams:          30,
		MinRosterSize:     22,
		MaxRosterSize:     26,
		MinContractLength: 1,
		MaxContractLength: 5,
		MinContract:       750,
		MaxContract:       35000,
		SalaryCap:         180000,
		SalaryCapType:     CapSoft,
		NumDraftRounds:    2,
	}
}

// GameState is the league clock.
type GameState struct {
	Season      int   `json:"season" yaml:"season"`
	Phase       Phase `json:"phase" yaml:"phase"`
	GamesPlayed int   `json:"gamesPlayed" yaml:"games_played"`
}
