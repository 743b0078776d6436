package trade

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/league/leaguetest"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// salaryExtremes returns the highest-paid player on tid and the lowest-paid
// player on other.
func salaryExtremes(t *testing.T, s league.Store, tid, other int) (models.Player, models.Player) {
	t.Helper()
	r0, err := s.TeamRoster(tid)
	require.NoError(t, err)
	r1, err := s.TeamRoster(other)
	require.NoError(t, err)

	high := models.PlayerList(r0.Players)
	high.SortBySalary()
	low := models.PlayerList(r1.Players)
	low.SortBySalary()
	return high[0], low[len(low)-1]
}

func capLeague(t *testing.T, capType string, capFor func(payroll int) int) *league.Snapshot {
	t.Helper()
	fin, err := leaguetest.Standard(t).FinancialState(1)
	require.NoError(t, err)
	return leaguetest.StandardBuilder().Configure(func(c *models.LeagueConfig) {
		c.SalaryCapType = capType
		c.SalaryCap = capFor(fin.Payroll)
	}).Build(t)
}

func TestCheckCleanTrade(t *testing.T) {
	c := NewChecker(leaguetest.Standard(t))
	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{1}
	p.Teams[1].PlayerIDs = []int{25}
	p.Teams[1].PickIDs = []int{3}

	warnings, err := c.Check(p)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCheckDuplicateAndUntradable(t *testing.T) {
	b := leaguetest.StandardBuilder()
	franchise := b.Player(models.Player{
		Name:             "Franchise Guy",
		TeamID:           0,
		Untradable:       true,
		UntradableReason: "Recently signed free agent",
	})
	s := b.Build(t)
	c := NewChecker(s)

	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{franchise, 2, 2}
	p.Teams[1].PlayerIDs = []int{25, 26}

	warnings, err := c.Check(p)
	require.NoError(t, err)
	require.Len(t, warnings, 2)

	assert.Equal(t, models.WarningDuplicateAsset, warnings[0].Code)
	assert.True(t, warnings[0].Blocking)

	assert.Equal(t, models.WarningUntradable, warnings[1].Code)
	assert.Equal(t, "Franchise Guy: Recently signed free agent", warnings[1].Message)
	assert.True(t, warnings[1].Blocking)
}

func TestCheckRosterLimits(t *testing.T) {
	c := NewChecker(leaguetest.Standard(t))
	p := models.NewProposal(0, 1)
	p.Teams[1].PlayerIDs = []int{25, 26, 27}

	warnings, err := c.Check(p)
	require.NoError(t, err)
	require.Len(t, warnings, 2)

	assert.Equal(t, models.Warning{
		TeamID:   0,
		Code:     models.WarningRosterOverMax,
		Message:  "BOS would have 27 players, more than the maximum of 26",
		Blocking: true,
		Excess:   1,
	}, warnings[0])
	assert.Equal(t, models.WarningRosterUnderMin, warnings[1].Code)
	assert.Equal(t, 1, warnings[1].TeamID)
	assert.Equal(t, 1, warnings[1].Excess)
}

func TestCheckHardCap(t *testing.T) {
	s := capLeague(t, models.CapHard, func(payroll int) int { return payroll + 100 })
	c := NewChecker(s)
	high, low := salaryExtremes(t, s, 0, 1)
	require.Greater(t, high.Contract.Amount-low.Contract.Amount, 100)

	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{high.ID}
	p.Teams[1].PlayerIDs = []int{low.ID}

	warnings, err := c.Check(p)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarningHardCap, warnings[0].Code)
	assert.Equal(t, 1, warnings[0].TeamID)
	assert.True(t, warnings[0].Blocking)
	assert.Equal(t, high.Contract.Amount-low.Contract.Amount-100, warnings[0].Excess)

	// An empty trade leaves payroll unchanged, which a hard cap allows.
	p.Teams[0].PlayerIDs, p.Teams[1].PlayerIDs = nil, nil
	warnings, err = c.Check(p)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCheckSoftCapIsAdvisory(t *testing.T) {
	s := capLeague(t, models.CapSoft, func(payroll int) int { return payroll - 1000 })
	c := NewChecker(s)
	high, low := salaryExtremes(t, s, 0, 1)
	require.Greater(t, float64(high.Contract.Amount), float64(low.Contract.Amount)*1.25+100)

	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{high.ID}
	p.Teams[1].PlayerIDs = []int{low.ID}

	warnings, err := c.Check(p)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarningSoftCap, warnings[0].Code)
	assert.False(t, warnings[0].Blocking)
	assert.False(t, models.HasBlocking(warnings))
	assert.NoError(t, models.Violations(warnings))
}

func TestCheckInvalidAssets(t *testing.T) {
	c := NewChecker(leaguetest.Standard(t))

	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{30}
	_, err := c.Check(p)
	var invalid *models.InvalidAssetError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 30, invalid.ID)
	assert.Equal(t, "owned by team 1", invalid.Reason)

	p = models.NewProposal(0, 1)
	p.Teams[1].PickIDs = []int{999}
	_, err = c.Check(p)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, models.AssetPick, invalid.Kind)

	_, err = c.Check(models.NewProposal(2, 2))
	assert.ErrorContains(t, err, "cannot trade with itself")
}

func TestViolationsFromBlockingWarnings(t *testing.T) {
	warnings := []models.Warning{
		{TeamID: 1, Code: models.WarningHardCap, Message: "over", Blocking: true},
		{TeamID: 1, Code: models.WarningSoftCap, Message: "advisory"},
	}
	err := models.Violations(warnings)
	var cv *models.ConstraintViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, models.WarningHardCap, cv.Code)
}
