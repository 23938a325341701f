// File: internal/pacing/pacing.go

// Package pacing centralizes the randomized delays that make automated
// interaction look human. Every interactive primitive in the page layer asks
// the policy how long to pause after an action; the live site fingerprints
// machine-speed input, so pacing is part of the suite's correctness, not
// decoration.
package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Action identifies the interaction an upcoming pause follows.
type Action int

const (
	Hover Action = iota
	Click
	Type
	Keypress
	Read
	Scroll
	MouseMove
	Settle
	Reload
)

// Range bounds a uniformly sampled delay.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Policy maps actions to delay ranges. The zero value never sleeps.
type Policy struct {
	delays      map[Action]Range
	typingDelay Range

	mu  sync.Mutex
	rng *rand.Rand
}

// Default returns the pacing used against the live site.
func Default() *Policy {
	return &Policy{
		delays: map[Action]Range{
			Hover:     {200 * time.Millisecond, 500 * time.Millisecond},
			Click:     {300 * time.Millisecond, 800 * time.Millisecond},
			Type:      {300 * time.Millisecond, 800 * time.Millisecond},
			Keypress:  {500 * time.Millisecond, 1000 * time.Millisecond},
			Read:      {1000 * time.Millisecond, 3000 * time.Millisecond},
			Scroll:    {800 * time.Millisecond, 2000 * time.Millisecond},
			MouseMove: {200 * time.Millisecond, 500 * time.Millisecond},
			Settle:    {300 * time.Millisecond, 800 * time.Millisecond},
			Reload:    {2000 * time.Millisecond, 4000 * time.Millisecond},
		},
		typingDelay: Range{50 * time.Millisecond, 150 * time.Millisecond},
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Disabled returns a policy with every delay zeroed. Use it against local
// fixtures where bot detection is not a concern and test speed matters.
func Disabled() *Policy {
	return &Policy{
		delays:      map[Action]Range{},
		typingDelay: Range{},
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithTypingDelay overrides the per-keystroke delay range.
func (p *Policy) WithTypingDelay(min, max time.Duration) *Policy {
	p.typingDelay = Range{min, max}
	return p
}

// Jitter samples a duration uniformly from r. A degenerate range returns Min.
func (p *Policy) Jitter(r Range) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Min + time.Duration(p.rng.Int63n(int64(r.Max-r.Min)))
}

// Delay returns a sampled pause for the given action without sleeping.
func (p *Policy) Delay(action Action) time.Duration {
	r, ok := p.delays[action]
	if !ok {
		return 0
	}
	return p.Jitter(r)
}

// Sleep pauses for a sampled duration appropriate to the action. It returns
// early if the context is cancelled; the pause itself never fails.
func (p *Policy) Sleep(ctx context.Context, action Action) {
	d := p.Delay(action)
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// TypingDelay samples the per-keystroke delay handed to Playwright's typing
// API, in milliseconds. Zero means type at machine speed.
func (p *Policy) TypingDelay() float64 {
	d := p.Jitter(p.typingDelay)
	return float64(d.Milliseconds())
}
