package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTryAcceptInterval(t *testing.T) {
	l := NewSeedLimiter()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, l.TryAccept("seed", base), "first post from a seed is accepted")
	assert.False(t, l.TryAccept("seed", base.Add(500*time.Millisecond)), "resubmission under 1s is rejected")
	assert.True(t, l.TryAccept("seed", base.Add(1001*time.Millisecond)), "resubmission after 1s is accepted")
}

func TestTryAcceptRejectionDoesNotResetInterval(t *testing.T) {
	l := NewSeedLimiter()
	base := time.Now()

	assert.True(t, l.TryAccept("seed", base))
	assert.False(t, l.TryAccept("seed", base.Add(900*time.Millisecond)))
	// The rejected attempt at +900ms must not push the window out.
	assert.True(t, l.TryAccept("seed", base.Add(1001*time.Millisecond)))
}

func TestTryAcceptSeedsAreIndependent(t *testing.T) {
	l := NewSeedLimiter()
	base := time.Now()

	assert.True(t, l.TryAccept("seed-a", base))
	assert.True(t, l.TryAccept("seed-b", base))
	assert.False(t, l.TryAccept("seed-a", base.Add(100*time.Millisecond)))
	assert.False(t, l.TryAccept("seed-b", base.Add(100*time.Millisecond)))
}

func TestSweepEvictsIdleSeeds(t *testing.T) {
	l := NewSeedLimiter()
	base := time.Now()

	l.TryAccept("old", base)
	l.TryAccept("fresh", base.Add(9*time.Minute))

	removed := l.Sweep(base.Add(11 * time.Minute))
	assert.Equal(t, 1, removed)

	// An evicted seed behaves like a brand-new one, which at this point
	// is indistinguishable from keeping the entry.
	assert.True(t, l.TryAccept("old", base.Add(11*time.Minute)))
}
