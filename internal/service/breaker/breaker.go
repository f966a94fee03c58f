// Package breaker short-circuits calls to a collaborator that keeps failing
// so callers can serve their fallback without waiting for a timeout.
package breaker

import (
	"log/slog"
	"sync"
	"time"
)

// State represents the state of a circuit breaker
type State int

const (
	// Closed lets every call through.
	Closed State = iota
	// Open rejects calls until the cooldown has elapsed.
	Open
	// HalfOpen lets a single probe through to test recovery.
	HalfOpen
)

// String returns a string representation of the circuit state
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Defaults used by New.
const (
	DefaultThreshold = 3
	DefaultCooldown  = 30 * time.Second
)

// Breaker counts consecutive failures of one collaborator. The zero value
// is not usable; call New.
type Breaker struct {
	mu        sync.Mutex
	name      string
	threshold int
	cooldown  time.Duration
	state     State
	failures  int
	openedAt  time.Time
	probing   bool
	now       func() time.Time
}

// Option customizes a Breaker.
type Option func(*Breaker)

// WithThreshold opens the circuit after n consecutive failures.
func WithThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithCooldown sets how long the circuit stays open before a probe.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// New creates a closed breaker for the collaborator called name.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:      name,
		threshold: DefaultThreshold,
		cooldown:  DefaultCooldown,
		now:       time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Allow reports whether a call should be attempted. Once the cooldown of
// an open circuit has elapsed exactly one caller is let through as a probe.
// A nil Breaker allows everything.
func (b *Breaker) Allow() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = HalfOpen
		b.probing = true
		return true
	case HalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

// Success records a successful call and closes the circuit.
func (b *Breaker) Success() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Closed {
		slog.Info("circuit breaker closed after successful probe", slog.String("collaborator", b.name))
	}
	b.state = Closed
	b.failures = 0
	b.probing = false
}

// Failure records a failed call. A failed probe reopens the circuit.
func (b *Breaker) Failure() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.probing = false
	if b.state == HalfOpen || b.failures >= b.threshold {
		if b.state != Open {
			slog.Warn("circuit breaker opened",
				slog.String("collaborator", b.name),
				slog.Int("consecutive_failures", b.failures),
				slog.Duration("cooldown", b.cooldown))
		}
		b.state = Open
		b.openedAt = b.now()
	}
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	if b == nil {
		return Closed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
