package apiclient

import (
	"errors"
	"sync"
	"time"

	"github.com/tair/pickup-store/pkg/logger"
)

// ErrCircuitOpen is returned without contacting the API while the breaker
// is open.
var ErrCircuitOpen = errors.New("storefront API unavailable, circuit open")

type circuitState string

const (
	stateClosed   circuitState = "closed"
	stateOpen     circuitState = "open"
	stateHalfOpen circuitState = "half-open"
)

// breaker opens after maxFailures consecutive transport or 5xx failures and
// lets a single probe through once cooldown has passed.
type breaker struct {
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    circuitState
	failures int
	openedAt time.Time
}

func newBreaker(maxFailures int, cooldown time.Duration) *breaker {
	return &breaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
		state:       stateClosed,
	}
}

// allow reports whether a request may be sent.
func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.state = stateHalfOpen
		logger.Component("apiclient").Info().Msg("Circuit breaker half-open, probing API")
		return nil
	case stateHalfOpen:
		// one probe at a time
		return ErrCircuitOpen
	default:
		return nil
	}
}

func (b *breaker) record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !failed {
		if b.state != stateClosed {
			logger.Component("apiclient").Info().Msg("Circuit breaker closed")
		}
		b.state = stateClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.maxFailures {
		if b.state != stateOpen {
			logger.Component("apiclient").Warn().
				Int("failures", b.failures).
				Dur("cooldown", b.cooldown).
				Msg("Circuit breaker opened")
		}
		b.state = stateOpen
		b.openedAt = b.now()
	}
}

func (b *breaker) current() circuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
