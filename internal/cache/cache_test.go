package cache

import (
	"context"
	"testing"
	"time"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

func testStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := NewStore(types.CacheConfig{Dir: t.TempDir(), TTL: ttl})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *types.HealthAnalysisResult {
	return &types.HealthAnalysisResult{
		Condition:  "diabetes",
		Mechanisms: []string{"impaired insulin signaling"},
		Recommendations: []types.ValidatedRecommendation{
			{Type: types.RecommendationActivity, Name: "Running", Category: types.CategoryBeneficial, Summary: "improves insulin sensitivity"},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := testStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "diabetes", sampleResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := s.Get(ctx, "diabetes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got.Condition != "diabetes" || len(got.Recommendations) != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.Recommendations[0].Name != "Running" {
		t.Errorf("recommendation name = %q, want Running", got.Recommendations[0].Name)
	}
}

func TestGetMissesUnknownKey(t *testing.T) {
	s := testStore(t, time.Hour)

	_, hit, err := s.Get(context.Background(), "never stored")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected miss for unknown key")
	}
}

func TestGetMissesExpiredEntry(t *testing.T) {
	s := testStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "diabetes", sampleResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Advance the clock past the TTL.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, hit, err := s.Get(ctx, "diabetes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected miss for expired entry")
	}
}

func TestPutReplacesEntry(t *testing.T) {
	s := testStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "k", sampleResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	updated := sampleResult()
	updated.Mechanisms = []string{"updated"}
	if err := s.Put(ctx, "k", updated); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}

	got, hit, err := s.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if len(got.Mechanisms) != 1 || got.Mechanisms[0] != "updated" {
		t.Errorf("Mechanisms = %v, want [updated]", got.Mechanisms)
	}
}

func TestPurgeRemovesOnlyExpired(t *testing.T) {
	s := testStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "old", sampleResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Store the second entry two hours later, then purge from that vantage.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if err := s.Put(ctx, "fresh", sampleResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	removed, err := s.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "fresh" {
		t.Errorf("entries = %+v, want only fresh", entries)
	}
}
