package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDelaysStayWithinRanges(t *testing.T) {
	p := Default()

	ranges := map[Action]Range{
		Hover:     {200 * time.Millisecond, 500 * time.Millisecond},
		Click:     {300 * time.Millisecond, 800 * time.Millisecond},
		Type:      {300 * time.Millisecond, 800 * time.Millisecond},
		Keypress:  {500 * time.Millisecond, 1000 * time.Millisecond},
		Read:      {1000 * time.Millisecond, 3000 * time.Millisecond},
		Scroll:    {800 * time.Millisecond, 2000 * time.Millisecond},
		MouseMove: {200 * time.Millisecond, 500 * time.Millisecond},
		Settle:    {300 * time.Millisecond, 800 * time.Millisecond},
		Reload:    {2000 * time.Millisecond, 4000 * time.Millisecond},
	}

	for action, r := range ranges {
		for i := 0; i < 100; i++ {
			d := p.Delay(action)
			assert.GreaterOrEqual(t, d, r.Min)
			assert.Less(t, d, r.Max)
		}
	}
}

func TestDisabledNeverDelays(t *testing.T) {
	p := Disabled()

	for _, action := range []Action{Hover, Click, Type, Keypress, Read, Scroll, MouseMove, Settle, Reload} {
		assert.Zero(t, p.Delay(action))
	}
	assert.Zero(t, p.TypingDelay())

	// Sleep with zero delay must return immediately.
	start := time.Now()
	p.Sleep(context.Background(), Read)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestSleepHonorsContextCancellation(t *testing.T) {
	p := Default()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	p.Sleep(ctx, Reload) // would otherwise block 2-4s
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestTypingDelayRange(t *testing.T) {
	p := Default()
	for i := 0; i < 100; i++ {
		d := p.TypingDelay()
		assert.GreaterOrEqual(t, d, 50.0)
		assert.LessOrEqual(t, d, 150.0)
	}
}

func TestWithTypingDelayOverride(t *testing.T) {
	p := Default().WithTypingDelay(10*time.Millisecond, 20*time.Millisecond)
	for i := 0; i < 50; i++ {
		d := p.TypingDelay()
		assert.GreaterOrEqual(t, d, 10.0)
		assert.LessOrEqual(t, d, 20.0)
	}
}

func TestJitterDegenerateRange(t *testing.T) {
	p := Default()
	require.Equal(t, 5*time.Millisecond, p.Jitter(Range{5 * time.Millisecond, 5 * time.Millisecond}))
	require.Equal(t, time.Duration(0), p.Jitter(Range{}))
}
