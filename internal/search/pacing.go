// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum interval between consecutive requests issued by
// one scraping collaborator. Each collaborator owns its own Pacer; there is
// no ambient shared pacing state. The clock is injectable so tests run
// without real sleeps.
type Pacer struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	last time.Time
}

// NewPacer builds a Pacer with the real clock. A non-positive interval
// disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous Wait returned, or until ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := p.now()
	wait := p.interval - now.Sub(p.last)
	if wait < 0 {
		wait = 0
	}
	p.last = now.Add(wait)
	p.mu.Unlock()

	if wait == 0 {
		return nil
	}
	return p.sleep(ctx, wait)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
