package board

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// postsPerSecond and postBurst give exactly "one accepted post per
	// seed per second": a retry under 1000ms after an accepted post finds
	// the bucket short of a full token and is rejected.
	postsPerSecond = 1
	postBurst      = 1

	// sweepHorizon is how long a seed can stay idle before its limiter
	// entry is dropped. Far above the refill interval, so eviction never
	// changes an accept/reject outcome.
	sweepHorizon = 10 * time.Minute
)

type seedEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// SeedLimiter enforces the minimum inter-post interval per seed. It keys
// on the raw seed, not the derived tag: a single seed cannot post faster
// than once a second no matter what name or content accompanies it.
//
// The table would otherwise grow with every distinct seed for the life
// of the process, so a background sweep evicts entries idle past the
// horizon.
type SeedLimiter struct {
	mu    sync.Mutex
	seeds map[string]*seedEntry
}

func NewSeedLimiter() *SeedLimiter {
	return &SeedLimiter{seeds: make(map[string]*seedEntry)}
}

// TryAccept reports whether a post from this seed at the given instant is
// allowed, recording the acceptance if so. A rejected attempt does not
// reset the interval.
func (l *SeedLimiter) TryAccept(seed string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.seeds[seed]
	if !ok {
		entry = &seedEntry{lim: rate.NewLimiter(postsPerSecond, postBurst)}
		l.seeds[seed] = entry
	}
	entry.lastSeen = now
	return entry.lim.AllowN(now, 1)
}

// Sweep drops entries idle longer than the horizon and returns how many
// were removed.
func (l *SeedLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for seed, entry := range l.seeds {
		if now.Sub(entry.lastSeen) > sweepHorizon {
			delete(l.seeds, seed)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until the context is canceled.
func (l *SeedLimiter) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Sweep(now)
		}
	}
}
