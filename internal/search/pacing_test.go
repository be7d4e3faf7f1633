package search

import (
	"context"
	"testing"
	"time"
)

// fakeClock drives a Pacer without real sleeps: sleeping advances the clock.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestPacer(interval time.Duration) (*Pacer, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	p := NewPacer(interval)
	p.now = clock.Now
	p.sleep = clock.Sleep
	return p, clock
}

func TestPacerFirstCallDoesNotSleep(t *testing.T) {
	p, clock := newTestPacer(time.Second)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("first Wait slept %v", clock.sleeps)
	}
}

func TestPacerEnforcesInterval(t *testing.T) {
	p, clock := newTestPacer(time.Second)

	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	// The first call is free; each subsequent call waits out the full
	// interval because the fake clock only advances while sleeping.
	if len(clock.sleeps) != 2 {
		t.Fatalf("slept %d times, want 2: %v", len(clock.sleeps), clock.sleeps)
	}
	for i, d := range clock.sleeps {
		if d != time.Second {
			t.Errorf("sleep %d = %v, want 1s", i, d)
		}
	}
}

func TestPacerSkipsSleepAfterQuietPeriod(t *testing.T) {
	p, clock := newTestPacer(time.Second)

	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	clock.now = clock.now.Add(5 * time.Second)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("slept %v after quiet period", clock.sleeps)
	}
}

func TestPacerDisabledWithoutInterval(t *testing.T) {
	p, clock := newTestPacer(0)
	for i := 0; i < 5; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("disabled pacer slept %v", clock.sleeps)
	}
}

func TestPacerCancelledContext(t *testing.T) {
	p := NewPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	cancel()
	if err := p.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait after cancel = %v, want context.Canceled", err)
	}
}
