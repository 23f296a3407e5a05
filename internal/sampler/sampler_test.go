package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/emotion"
)

type fakeDetector struct {
	mu      sync.Mutex
	calls   int
	err     error
	current emotion.Vector
}

func (f *fakeDetector) Detect(ctx context.Context) (emotion.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return emotion.Sample{}, f.err
	}
	return emotion.Sample{Vector: f.current, CapturedAt: time.Now()}, nil
}

func (f *fakeDetector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeWriter struct {
	saved atomic.Int64
}

func (f *fakeWriter) CreateEmotionSample(ctx context.Context, sessionID uuid.UUID, sample emotion.Sample) (uuid.UUID, error) {
	f.saved.Add(1)
	return uuid.New(), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSampler_AppendsAndPersists(t *testing.T) {
	det := &fakeDetector{current: emotion.Vector{Happy: 70}}
	writer := &fakeWriter{}
	s := New(det, writer, nil, 5*time.Millisecond, 20*time.Millisecond, testLogger())

	buf := emotion.NewBuffer(10)
	stop := s.Start(context.Background(), uuid.New(), buf)

	time.Sleep(100 * time.Millisecond)
	stop()

	if buf.Len() == 0 {
		t.Error("expected samples in the buffer")
	}
	if det.callCount() == 0 {
		t.Error("expected detector to be polled")
	}
	if writer.saved.Load() == 0 {
		t.Error("expected at least one persisted sample")
	}
}

func TestSampler_StopHaltsBothTasks(t *testing.T) {
	det := &fakeDetector{current: emotion.Vector{Neutral: 100}}
	writer := &fakeWriter{}
	s := New(det, writer, nil, 5*time.Millisecond, 5*time.Millisecond, testLogger())

	buf := emotion.NewBuffer(10)
	stop := s.Start(context.Background(), uuid.New(), buf)
	time.Sleep(30 * time.Millisecond)
	stop()

	calls := det.callCount()
	saved := writer.saved.Load()
	time.Sleep(50 * time.Millisecond)

	if det.callCount() != calls {
		t.Error("detector polled after stop")
	}
	if writer.saved.Load() != saved {
		t.Error("sample persisted after stop")
	}

	// Stop is idempotent.
	stop()
}

func TestSampler_DetectorErrorsAreSkipped(t *testing.T) {
	det := &fakeDetector{err: errors.New("no face in frame")}
	writer := &fakeWriter{}
	s := New(det, writer, nil, 5*time.Millisecond, 20*time.Millisecond, testLogger())

	buf := emotion.NewBuffer(10)
	stop := s.Start(context.Background(), uuid.New(), buf)
	time.Sleep(50 * time.Millisecond)
	stop()

	if buf.Len() != 0 {
		t.Errorf("expected empty buffer when every read fails, got %d", buf.Len())
	}
	if det.callCount() < 2 {
		t.Errorf("expected sampling to continue past errors, got %d calls", det.callCount())
	}
}

func TestSampler_AutosaveSkipsDuplicates(t *testing.T) {
	det := &fakeDetector{current: emotion.Vector{Happy: 10}}
	writer := &fakeWriter{}
	// Sampling far slower than autosave: the same latest sample stays
	// in place across several autosave ticks and must be saved once.
	s := New(det, writer, nil, time.Hour, 5*time.Millisecond, testLogger())

	buf := emotion.NewBuffer(10)
	buf.Append(emotion.Sample{Vector: emotion.Vector{Happy: 10}, CapturedAt: time.Now()})

	stop := s.Start(context.Background(), uuid.New(), buf)
	time.Sleep(60 * time.Millisecond)
	stop()

	if got := writer.saved.Load(); got != 1 {
		t.Errorf("expected exactly 1 save for an unchanged latest sample, got %d", got)
	}
}
