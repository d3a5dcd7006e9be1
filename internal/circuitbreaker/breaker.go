package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	Closed   State = iota // calls pass through
	Open                  // calls are rejected until the reset timeout elapses
	HalfOpen              // a single probe call is in flight
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

// ErrCircuitOpen is returned when the circuit breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Option configures a Breaker.
type Option func(*Breaker)

// WithClock replaces time.Now. Tests use it to step past the reset timeout.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// WithStateChange registers a hook called with the old and new state on every transition.
// It runs with the breaker lock held and must not call back into the breaker.
func WithStateChange(fn func(from, to State)) Option {
	return func(b *Breaker) { b.onChange = fn }
}

// Breaker guards an unreliable dependency. It opens after maxFailures
// consecutive failures and lets one probe through once resetTimeout has passed.
type Breaker struct {
	mu           sync.Mutex
	state        State
	failures     int
	maxFailures  int
	resetTimeout time.Duration
	openedAt     time.Time
	now          func() time.Time
	onChange     func(from, to State)
}

// New creates a closed Breaker. maxFailures below 1 is treated as 1.
func New(maxFailures int, resetTimeout time.Duration, opts ...Option) *Breaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	b := &Breaker{
		state:        Closed,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Do runs fn through the breaker. ErrCircuitOpen is returned without calling fn
// while the circuit is open or a half-open probe is already running.
// A context cancellation from the caller is not counted against the dependency.
// A panic in fn counts as a failure and is re-raised.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.acquire(); err != nil {
		return err
	}

	returned := false
	defer func() {
		if !returned {
			b.record(ctx, errPanicked)
		}
	}()

	err := fn(ctx)
	returned = true
	b.record(ctx, err)
	return err
}

var errPanicked = errors.New("circuitbreaker: call panicked")

func (b *Breaker) record(ctx context.Context, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case err == nil:
		b.failures = 0
		b.transition(Closed)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// Caller gave up. A half-open probe goes back to open without extending the wait.
		if b.state == HalfOpen {
			b.transition(Open)
		}
	default:
		b.failures++
		if b.state == HalfOpen || b.failures >= b.maxFailures {
			b.openedAt = b.now()
			b.transition(Open)
		}
	}
}

// Execute is Do for callers without a context.
func (b *Breaker) Execute(fn func() error) error {
	return b.Do(context.Background(), func(context.Context) error { return fn() })
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) < b.resetTimeout {
			return ErrCircuitOpen
		}
		b.transition(HalfOpen)
	case HalfOpen:
		return ErrCircuitOpen
	}
	return nil
}

// transition requires b.mu.
func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	if b.onChange != nil {
		b.onChange(from, to)
	}
}

// State returns the current state. An open breaker whose reset timeout has
// elapsed still reports Open until the next call probes it.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the current run of consecutive failures.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
