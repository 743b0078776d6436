package bot

import (
	"fmt"
	"time"

	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/storage"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

const negotiationCheckInterval = 2 * time.Minute

// NegotiationMonitor closes contract talks whose window has passed and tells
// whoever opened them.
type NegotiationMonitor struct {
	store    *storage.NegotiationStorage
	notify   func(*models.Negotiation)
	now      func() time.Time
	logger   *logger.Logger
	interval time.Duration
}

func NewNegotiationMonitor(store *storage.NegotiationStorage, notify func(*models.Negotiation), log *logger.Logger) *NegotiationMonitor {
	return &NegotiationMonitor{
		store:    store,
		notify:   notify,
		now:      time.Now,
		logger:   log,
		interval: negotiationCheckInterval,
	}
}

func (nm *NegotiationMonitor) Run(stop <-chan struct{}) {
	runLoop("negotiation monitor", nm.interval, stop, nm.logger, func() {
		if _, err := nm.Check(); err != nil {
			nm.logger.Errorf("Negotiation check failed: %v", err)
		}
	})
}

// Check closes every expired negotiation and returns how many it closed.
func (nm *NegotiationMonitor) Check() (int, error) {
	nm.logger.Debug("Checking for expired negotiations")

	active, err := nm.store.GetActive()
	if err != nil {
		return 0, fmt.Errorf("failed to get active negotiations: %w", err)
	}

	now := nm.now()
	closed := 0
	for _, n := range active {
		if !n.IsExpired(now) {
			continue
		}
		if err := nm.store.Close(n.ID); err != nil {
			nm.logger.Errorf("Failed to close negotiation %s: %v", n.ID, err)
			continue
		}
		closed++
		nm.logger.With("negotiation", n.ID).Infof("Negotiation with player %d expired", n.PlayerID)
		nm.notify(n)
	}
	return closed, nil
}
