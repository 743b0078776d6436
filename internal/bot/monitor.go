package bot

import (
	"time"

	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

// runLoop calls check once immediately and then on every tick until stop is
// closed.
func runLoop(name string, interval time.Duration, stop <-chan struct{}, log *logger.Logger, check func()) {
	log.Infof("Starting %s", name)

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-stop:
			log.Infof("Stopping %s", name)
			return
		}
	}
}
