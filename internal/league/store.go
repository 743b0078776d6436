// Package league is the record-store boundary the trade engine reads from.
// Everything the engine needs about rosters, payrolls, the draft outlook and
// league rules comes through Store, so the engine itself holds no state.
package league

import "github.com/pmurley/ulb-tradedesk/internal/models"

// Store is a read-only view of cached league records.
type Store interface {
	TeamRoster(tid int) (models.Roster, error)
	FinancialState(tid int) (models.FinancialState, error)
	// ExpectedDraftPosition estimates where tid's own pick lands in season's
	// draft, as a 1-based slot within a round.
	ExpectedDraftPosition(tid, season int) (float64, error)
	LeagueConfig() models.LeagueConfig
	State() models.GameState

	Teams() []models.Team
	Team(tid int) (models.Team, error)
	Player(pid int) (models.Player, error)
	Pick(dpid int) (models.DraftPick, error)
	Players() models.PlayerList

	// Version changes whenever ownership, contracts or the clock change.
	Version() string
}
