package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/emotion"
	"github.com/attune-labs/attune/internal/store"
)

type fakeReader struct {
	session  store.Session
	samples  []store.SampleRow
	messages []store.MessageRow
	err      error
}

func (f *fakeReader) GetSession(ctx context.Context, id uuid.UUID) (store.Session, error) {
	return f.session, f.err
}

func (f *fakeReader) ListEmotionSamples(ctx context.Context, sessionID uuid.UUID) ([]store.SampleRow, error) {
	return f.samples, nil
}

func (f *fakeReader) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]store.MessageRow, error) {
	return f.messages, nil
}

func TestCompute_EmptySession(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	agg := NewAggregator(&fakeReader{
		session: store.Session{ID: uuid.New(), StartedAt: start, Active: true},
	})

	got, err := agg.Compute(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DetectionCount != 0 || got.MessageCount != 0 {
		t.Errorf("expected zero counts, got %+v", got)
	}
	if got.DominantEmotion != "neutral" {
		t.Errorf("expected neutral default, got %q", got.DominantEmotion)
	}
	if got.AverageConfidencePercent != 0 {
		t.Errorf("expected 0 confidence, got %d", got.AverageConfidencePercent)
	}
	if got.LatestVector != nil {
		t.Errorf("expected no latest vector, got %+v", got.LatestVector)
	}
}

func TestCompute_DominantFromTotals(t *testing.T) {
	now := time.Now()
	agg := NewAggregator(&fakeReader{
		session: store.Session{StartedAt: now.Add(-time.Minute), Active: true},
		samples: []store.SampleRow{
			{Vector: emotion.Vector{Happy: 100}, Confidence: 0.9, CapturedAt: now.Add(-3 * time.Second)},
			{Vector: emotion.Vector{Happy: 60, Sad: 40}, Confidence: 0.8, CapturedAt: now.Add(-2 * time.Second)},
			{Vector: emotion.Vector{Sad: 100}, Confidence: 0.7, CapturedAt: now.Add(-time.Second)},
		},
		messages: []store.MessageRow{
			{IsUser: true, Content: "hi"},
			{IsUser: false, Content: "hello"},
		},
	})

	got, err := agg.Compute(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Totals: happy=160, sad=140 — happy wins.
	if got.DominantEmotion != "happy" {
		t.Errorf("expected happy, got %q", got.DominantEmotion)
	}
	if got.DetectionCount != 3 {
		t.Errorf("expected 3 detections, got %d", got.DetectionCount)
	}
	if got.MessageCount != 2 {
		t.Errorf("expected 2 messages, got %d", got.MessageCount)
	}
	if got.AverageConfidencePercent != 80 {
		t.Errorf("expected 80%% confidence, got %d", got.AverageConfidencePercent)
	}
	if got.LatestVector == nil || got.LatestVector.Sad != 100 {
		t.Errorf("expected latest vector sad=100, got %+v", got.LatestVector)
	}
}

func TestCompute_DurationEndedSession(t *testing.T) {
	start := time.Now().Add(-500 * time.Second)
	end := start.Add(120 * time.Second)
	agg := NewAggregator(&fakeReader{
		session: store.Session{StartedAt: start, EndedAt: &end, Active: false},
	})

	got, err := agg.Compute(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DurationSeconds != 120 {
		t.Errorf("expected 120s duration, got %d", got.DurationSeconds)
	}
}

func TestCompute_DurationActiveSession(t *testing.T) {
	start := time.Now()
	agg := NewAggregator(&fakeReader{
		session: store.Session{StartedAt: start, Active: true},
	})
	agg.now = func() time.Time { return start.Add(45 * time.Second) }

	got, err := agg.Compute(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DurationSeconds != 45 {
		t.Errorf("expected 45s duration, got %d", got.DurationSeconds)
	}
}

func TestCompute_DurationNoEndTime(t *testing.T) {
	agg := NewAggregator(&fakeReader{
		session: store.Session{StartedAt: time.Now().Add(-time.Hour), Active: false},
	})

	got, err := agg.Compute(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DurationSeconds != 0 {
		t.Errorf("expected 0s duration for inactive session without end time, got %d", got.DurationSeconds)
	}
}

func TestCompute_StoreError(t *testing.T) {
	agg := NewAggregator(&fakeReader{err: errors.New("db down")})

	if _, err := agg.Compute(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error when the store is unavailable")
	}
}
