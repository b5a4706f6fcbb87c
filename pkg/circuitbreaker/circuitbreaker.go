// Package circuitbreaker stops calling a failing dependency for a while and
// then lets a single probe through to see whether it recovered.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned without calling fn while the circuit is open or a
// half-open probe is already running.
var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold int
	// OpenFor is how long the circuit stays open before a probe is allowed.
	OpenFor time.Duration
	// OnStateChange is called after every transition, outside the lock.
	OnStateChange func(from, to State)
	// Now is replaceable in tests.
	Now func() time.Time
}

type Breaker struct {
	cfg Config

	mu        sync.Mutex
	state     State
	failures  int
	openUntil time.Time
	probing   bool
}

func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Breaker{cfg: cfg}
}

// Do runs fn unless the circuit is open. A non-nil error from fn counts as a
// failure; callers decide which outcomes are failures by what they return.
func (b *Breaker) Do(fn func() error) error {
	probe, err := b.admit()
	if err != nil {
		return err
	}

	callErr := fn()
	b.record(probe, callErr == nil)
	return callErr
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open && !b.cfg.Now().Before(b.openUntil) {
		return HalfOpen
	}
	return b.state
}

func (b *Breaker) admit() (probe bool, err error) {
	b.mu.Lock()

	switch b.state {
	case Closed:
		b.mu.Unlock()
		return false, nil

	case Open:
		if b.cfg.Now().Before(b.openUntil) {
			b.mu.Unlock()
			return false, ErrOpen
		}
		b.state = HalfOpen
		b.probing = true
		b.mu.Unlock()
		b.notify(Open, HalfOpen)
		return true, nil

	default:
		if b.probing {
			b.mu.Unlock()
			return false, ErrOpen
		}
		b.probing = true
		b.mu.Unlock()
		return true, nil
	}
}

func (b *Breaker) record(probe, ok bool) {
	b.mu.Lock()
	from := b.state

	switch {
	case ok:
		b.failures = 0
		if probe {
			b.probing = false
			b.state = Closed
		}
	case probe:
		b.probing = false
		b.trip()
	default:
		b.failures++
		if b.state == Closed && b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	}

	to := b.state
	b.mu.Unlock()

	if from != to {
		b.notify(from, to)
	}
}

func (b *Breaker) trip() {
	b.state = Open
	b.failures = 0
	b.openUntil = b.cfg.Now().Add(b.cfg.OpenFor)
}

func (b *Breaker) notify(from, to State) {
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
