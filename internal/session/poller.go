package session

import (
	"context"
	"sync"
	"time"

	"github.com/tair/pickup-store/pkg/logger"
)

// DefaultInterval is how often clients poll the store.
const DefaultInterval = 3 * time.Second

// Poller refreshes a session on a fixed interval.
type Poller struct {
	session  *Session
	interval time.Duration
	skipped  func()
}

// NewPoller creates a poller; a non-positive interval uses DefaultInterval.
func NewPoller(s *Session, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{session: s, interval: interval}
}

// Run polls until ctx is cancelled. Each tick polls in the background; a
// tick that finds the previous poll still running does nothing.
func (p *Poller) Run(ctx context.Context) error {
	log := logger.Component("poller")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	log.Debug().Dur("interval", p.interval).Msg("Polling started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Polling stopped")
			return ctx.Err()
		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				ran, err := p.session.Poll(ctx)
				switch {
				case !ran:
					if p.skipped != nil {
						p.skipped()
					}
				case err != nil && ctx.Err() == nil:
					log.Warn().Err(err).Msg("Poll failed")
				}
			}()
		}
	}
}
