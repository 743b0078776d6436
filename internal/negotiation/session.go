package negotiation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// ErrNotNegotiable means the player cannot be signed by the team right now.
var ErrNotNegotiable = errors.New("player is not available to negotiate")

// Open starts contract talks between team tid and player pid. Free agents can
// be approached at any time; a team's own players only while re-signing.
// The session anchors on the player's desired contract and lapses after ttl.
func (g *Generator) Open(pid, tid int, userID, channelID string, ttl time.Duration, now time.Time) (*models.Negotiation, error) {
	p, err := g.store.Player(pid)
	if err != nil {
		return nil, err
	}
	if _, err := g.store.Team(tid); err != nil {
		return nil, err
	}

	state := g.store.State()
	switch {
	case p.TeamID == models.FreeAgentTeamID:
	case p.TeamID == tid && state.Phase == models.PhaseResignPlayers:
	default:
		return nil, fmt.Errorf("%s: %w", p.Name, ErrNotNegotiable)
	}

	n := &models.Negotiation{
		ID:        uuid.NewString(),
		PlayerID:  pid,
		TeamID:    tid,
		UserID:    userID,
		Anchor:    g.DesiredContract(p),
		StartTime: now,
		EndTime:   now.Add(ttl),
		ChannelID: channelID,
	}
	g.log.With("negotiation", n.ID).Infof("Opened negotiation with %s for team %d", p.Name, tid)
	return n, nil
}
