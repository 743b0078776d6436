package models

import (
	"time"
)

// Negotiation is an open contract talk between a team and a player.
type Negotiation struct {
	ID        string        // Session ID
	PlayerID  int           // Player being negotiated with
	TeamID    int           // Team making offers
	UserID    string        // Discord user who opened it
	Anchor    ContractTerms // What the player asked for when talks opened
	StartTime time.Time
	EndTime   time.Time // Talks lapse after this
	ChannelID string    // Discord channel to notify on expiry
	Closed    bool
}

// IsExpired checks if the negotiation window has passed
func (n *Negotiation) IsExpired(now time.Time) bool {
	return now.After(n.EndTime)
}
