package league

import (
	"fmt"
	"hash/fnv"
	"slices"
	"sort"
	"strings"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// powerRankDepth is how many top players count toward the strength used to
// project draft slots when no explicit estimate exists.
const powerRankDepth = 10

// ExpectedSlot is an externally supplied draft-position estimate.
type ExpectedSlot struct {
	TeamID int     `json:"tid" yaml:"tid"`
	Season int     `json:"season" yaml:"season"`
	Slot   float64 `json:"slot" yaml:"slot"`
}

// Snapshot is an in-memory Store built from a league file, a spreadsheet
// export or test fixtures. It is immutable once indexed; loaders build a
// new Snapshot instead of mutating a shared one.
type Snapshot struct {
	Config        models.LeagueConfig `json:"config" yaml:"config"`
	Clock         models.GameState    `json:"state" yaml:"state"`
	TeamRecords   []models.Team       `json:"teams" yaml:"teams"`
	PlayerRecords []models.Player     `json:"players" yaml:"players"`
	PickRecords   []models.DraftPick  `json:"picks" yaml:"picks"`
	Slots         []ExpectedSlot      `json:"expectedSlots,omitempty" yaml:"expected_slots,omitempty"`

	teamIdx   map[int]int
	playerIdx map[int]int
	pickIdx   map[int]int
	slotIdx   map[[2]int]float64
	powerSlot map[int]float64
	version   string
}

// NewSnapshot indexes the given records. It returns an error when records
// reference unknown teams or reuse IDs.
func NewSnapshot(cfg models.LeagueConfig, state models.GameState, teams []models.Team, players []models.Player, picks []models.DraftPick, slots ...ExpectedSlot) (*Snapshot, error) {
	s := &Snapshot{
		Config:        cfg,
		Clock:         state,
		TeamRecords:   teams,
		PlayerRecords: players,
		PickRecords:   picks,
		Slots:         slots,
	}
	if err := s.index(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) index() error {
	s.teamIdx = make(map[int]int, len(s.TeamRecords))
	for i, t := range s.TeamRecords {
		if _, dup := s.teamIdx[t.ID]; dup {
			return fmt.Errorf("duplicate team id %d", t.ID)
		}
		s.teamIdx[t.ID] = i
	}

	s.playerIdx = make(map[int]int, len(s.PlayerRecords))
	for i, p := range s.PlayerRecords {
		if _, dup := s.playerIdx[p.ID]; dup {
			return fmt.Errorf("duplicate player id %d", p.ID)
		}
		if p.TeamID >= 0 {
			if _, ok := s.teamIdx[p.TeamID]; !ok {
				return fmt.Errorf("player %d (%s) is on unknown team %d", p.ID, p.Name, p.TeamID)
			}
		}
		s.playerIdx[p.ID] = i
	}

	s.pickIdx = make(map[int]int, len(s.PickRecords))
	for i, dp := range s.PickRecords {
		if _, dup := s.pickIdx[dp.ID]; dup {
			return fmt.Errorf("duplicate draft pick id %d", dp.ID)
		}
		if _, ok := s.teamIdx[dp.TeamID]; !ok {
			return fmt.Errorf("draft pick %d is owned by unknown team %d", dp.ID, dp.TeamID)
		}
		if _, ok := s.teamIdx[dp.OriginalTeamID]; !ok {
			return fmt.Errorf("draft pick %d belongs to unknown team %d", dp.ID, dp.OriginalTeamID)
		}
		s.pickIdx[dp.ID] = i
	}

	s.slotIdx = make(map[[2]int]float64, len(s.Slots))
	for _, es := range s.Slots {
		s.slotIdx[[2]int{es.TeamID, es.Season}] = es.Slot
	}

	s.powerSlot = s.powerRanking()
	s.version = s.computeVersion()
	return nil
}

// powerRanking projects the weakest roster to pick first.
func (s *Snapshot) powerRanking() map[int]float64 {
	type strength struct {
		tid   int
		score int
	}
	strengths := make([]strength, 0, len(s.TeamRecords))
	for _, t := range s.TeamRecords {
		top := models.PlayerList(s.PlayerRecords).FilterByTeam(t.ID).TopByOvr(powerRankDepth)
		score := 0
		for _, p := range top {
			score += p.Ratings.Ovr
		}
		strengths = append(strengths, strength{tid: t.ID, score: score})
	}
	sort.Slice(strengths, func(i, j int) bool {
		if strengths[i].score != strengths[j].score {
			return strengths[i].score < strengths[j].score
		}
		return strengths[i].tid < strengths[j].tid
	})

	slots := make(map[int]float64, len(strengths))
	for rank, st := range strengths {
		slots[st.tid] = float64(rank + 1)
	}
	return slots
}

func (s *Snapshot) computeVersion() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d/%d/%d;", s.Clock.Season, s.Clock.Phase, s.Clock.GamesPlayed)
	players := slices.Clone(models.PlayerList(s.PlayerRecords))
	players.SortByID()
	for _, p := range players {
		fmt.Fprintf(h, "p%d:%d:%d:%d:%d;", p.ID, p.TeamID, p.Contract.Amount, p.Contract.Exp, p.Ratings.Ovr)
	}
	for _, dp := range s.sortedPicks(s.PickRecords) {
		fmt.Fprintf(h, "dp%d:%d;", dp.ID, dp.TeamID)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func (s *Snapshot) sortedPicks(picks []models.DraftPick) []models.DraftPick {
	out := append([]models.DraftPick(nil), picks...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Snapshot) TeamRoster(tid int) (models.Roster, error) {
	if _, ok := s.teamIdx[tid]; !ok {
		return models.Roster{}, fmt.Errorf("roster for team %d: %w", tid, models.ErrTeamNotFound)
	}
	players := models.PlayerList(s.PlayerRecords).FilterByTeam(tid)
	players.SortByID()

	var picks []models.DraftPick
	for _, dp := range s.PickRecords {
		if dp.TeamID == tid {
			picks = append(picks, dp)
		}
	}
	return models.Roster{Players: players, Picks: s.sortedPicks(picks)}, nil
}

func (s *Snapshot) FinancialState(tid int) (models.FinancialState, error) {
	i, ok := s.teamIdx[tid]
	if !ok {
		return models.FinancialState{}, fmt.Errorf("finances for team %d: %w", tid, models.ErrTeamNotFound)
	}
	payroll := models.PlayerList(s.PlayerRecords).FilterByTeam(tid).Payroll() + s.TeamRecords[i].DeadMoney
	return models.FinancialState{
		Payroll:   payroll,
		CapFigure: s.Config.SalaryCap,
		HardCap:   s.Config.SalaryCapType == models.CapHard,
	}, nil
}

func (s *Snapshot) ExpectedDraftPosition(tid, season int) (float64, error) {
	if _, ok := s.teamIdx[tid]; !ok {
		return 0, fmt.Errorf("draft position for team %d: %w", tid, models.ErrTeamNotFound)
	}
	if slot, ok := s.slotIdx[[2]int{tid, season}]; ok {
		return slot, nil
	}
	return s.powerSlot[tid], nil
}

func (s *Snapshot) LeagueConfig() models.LeagueConfig { return s.Config }
func (s *Snapshot) State() models.GameState           { return s.Clock }
func (s *Snapshot) Version() string                   { return s.version }

// Teams returns the teams ordered by ID.
func (s *Snapshot) Teams() []models.Team {
	teams := append([]models.Team(nil), s.TeamRecords...)
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams
}

func (s *Snapshot) Team(tid int) (models.Team, error) {
	i, ok := s.teamIdx[tid]
	if !ok {
		return models.Team{}, fmt.Errorf("team %d: %w", tid, models.ErrTeamNotFound)
	}
	return s.TeamRecords[i], nil
}

// TeamByAbbrev finds a team by abbreviation or full name, case-insensitively.
func (s *Snapshot) TeamByAbbrev(name string) (models.Team, error) {
	for _, t := range s.TeamRecords {
		if strings.EqualFold(t.Abbrev, name) || strings.EqualFold(t.FullName(), name) || strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return models.Team{}, fmt.Errorf("team %q: %w", name, models.ErrTeamNotFound)
}

func (s *Snapshot) Player(pid int) (models.Player, error) {
	i, ok := s.playerIdx[pid]
	if !ok {
		return models.Player{}, fmt.Errorf("player %d: %w", pid, models.ErrPlayerNotFound)
	}
	return s.PlayerRecords[i], nil
}

func (s *Snapshot) Pick(dpid int) (models.DraftPick, error) {
	i, ok := s.pickIdx[dpid]
	if !ok {
		return models.DraftPick{}, fmt.Errorf("draft pick %d: %w", dpid, models.ErrPickNotFound)
	}
	return s.PickRecords[i], nil
}

// Players returns a copy of every player record.
func (s *Snapshot) Players() models.PlayerList {
	return slices.Clone(models.PlayerList(s.PlayerRecords))
}

// WithPlayers returns a new snapshot with the given players replacing the
// records that share their IDs.
func (s *Snapshot) WithPlayers(updated ...models.Player) (*Snapshot, error) {
	players := append([]models.Player(nil), s.PlayerRecords...)
	for _, u := range updated {
		i, ok := s.playerIdx[u.ID]
		if !ok {
			return nil, fmt.Errorf("update player %d: %w", u.ID, models.ErrPlayerNotFound)
		}
		players[i] = u
	}
	return NewSnapshot(s.Config, s.Clock, s.TeamRecords, players, s.PickRecords, s.Slots...)
}
