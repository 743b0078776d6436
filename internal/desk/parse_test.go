package desk

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league/leaguetest"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

func TestParseProposal(t *testing.T) {
	s := leaguetest.Standard(t)

	tests := []struct {
		name string
		text string
		want models.TradeProposal
	}{
		{
			name: "players both ways",
			text: "BOS Player 1, BOS Player 2 for NYY Player 1",
			want: models.TradeProposal{Teams: [2]models.TeamSide{
				{TeamID: 0, PlayerIDs: []int{1, 2}},
				{TeamID: 1, PlayerIDs: []int{25}},
			}},
		},
		{
			name: "own pick without team prefix",
			text: "BOS Player 3, 2025 2nd round pick for NYY",
			want: models.TradeProposal{Teams: [2]models.TeamSide{
				{TeamID: 0, PlayerIDs: []int{3}, PickIDs: []int{2}},
				{TeamID: 1},
			}},
		},
		{
			name: "pick with original team",
			text: "bos 2025 1st FOR NYY 2025 1st",
			want: models.TradeProposal{Teams: [2]models.TeamSide{
				{TeamID: 0, PickIDs: []int{1}},
				{TeamID: 1, PickIDs: []int{3}},
			}},
		},
		{
			name: "team by full name",
			text: "Region NYY Club NYY for BOS Player 1",
			want: models.TradeProposal{Teams: [2]models.TeamSide{
				{TeamID: 1},
				{TeamID: 0, PlayerIDs: []int{1}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProposal(s, tt.text)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseProposal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseProposalErrors(t *testing.T) {
	s := leaguetest.Standard(t)

	tests := []struct {
		name     string
		text     string
		reason   string
		notFound []string
	}{
		{name: "no separator", text: "BOS Player 1", reason: "use <assets> for <assets>"},
		{name: "unknown names", text: "Nobody, BOS Player 1 for NYY 2031 1st", reason: "not found", notFound: []string{"Nobody", "NYY 2031 1st"}},
		{name: "same team", text: "BOS Player 1 for BOS Player 2", reason: "both sides belong to the same team"},
		{name: "mixed side", text: "BOS Player 1, NYY Player 1 for TBR", reason: `"NYY Player 1" belongs to a different team than the rest of its side`},
		{name: "no team", text: " for NYY", reason: `cannot tell which team "" belongs to`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProposal(s, tt.text)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.reason, perr.Reason)
			assert.Equal(t, tt.notFound, perr.NotFound)
		})
	}
}
