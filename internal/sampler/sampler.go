package sampler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/bus"
	"github.com/attune-labs/attune/internal/emotion"
	"github.com/attune-labs/attune/internal/metrics"
)

// Detector is the sampling side of the classifier collaborator.
type Detector interface {
	Detect(ctx context.Context) (emotion.Sample, error)
}

// SampleWriter is the persistence side the autosave task writes to.
type SampleWriter interface {
	CreateEmotionSample(ctx context.Context, sessionID uuid.UUID, sample emotion.Sample) (uuid.UUID, error)
}

// Sampler drives two periodic tasks per active session: a fast tick
// polling the detector into the session buffer, and a slower tick
// persisting the buffer's latest sample.
type Sampler struct {
	detector Detector
	writer   SampleWriter
	bus      *bus.Client
	logger   *slog.Logger

	sampleInterval   time.Duration
	autosaveInterval time.Duration
}

func New(det Detector, writer SampleWriter, b *bus.Client, sampleInterval, autosaveInterval time.Duration, logger *slog.Logger) *Sampler {
	return &Sampler{
		detector:         det,
		writer:           writer,
		bus:              b,
		logger:           logger,
		sampleInterval:   sampleInterval,
		autosaveInterval: autosaveInterval,
	}
}

// Start launches both tasks for a session and returns a stop function.
// Stop cancels the tasks and blocks until both have exited; no tick
// fires after it returns. Stop is safe to call more than once.
func (s *Sampler) Start(ctx context.Context, sessionID uuid.UUID, buf *emotion.Buffer) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	metrics.ActiveSessions.Inc()

	wg.Add(2)
	go func() {
		defer wg.Done()
		s.sampleLoop(ctx, sessionID, buf)
	}()
	go func() {
		defer wg.Done()
		s.autosaveLoop(ctx, sessionID, buf)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
			metrics.ActiveSessions.Dec()
		})
	}
}

func (s *Sampler) sampleLoop(ctx context.Context, sessionID uuid.UUID, buf *emotion.Buffer) {
	ticker := time.NewTicker(s.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample, err := s.detector.Detect(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// A missed reading is routine (no face in frame, detector
				// busy); sampling continues on the next tick.
				s.logger.Debug("detector read failed", "session_id", sessionID, "error", err)
				continue
			}
			buf.Append(sample)
			metrics.SamplesAppended.Inc()
		}
	}
}

func (s *Sampler) autosaveLoop(ctx context.Context, sessionID uuid.UUID, buf *emotion.Buffer) {
	ticker := time.NewTicker(s.autosaveInterval)
	defer ticker.Stop()

	var lastSaved time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			latest, ok := buf.Latest()
			if !ok || !latest.CapturedAt.After(lastSaved) {
				continue
			}
			if _, err := s.writer.CreateEmotionSample(ctx, sessionID, latest); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Error("failed to persist sample", "session_id", sessionID, "error", err)
				continue
			}
			lastSaved = latest.CapturedAt
			metrics.SamplesPersisted.Inc()

			if err := s.bus.Publish(bus.SubjectSampleStored, map[string]any{
				"session_id":  sessionID.String(),
				"captured_at": latest.CapturedAt.Format(time.RFC3339Nano),
				"vector":      latest.Vector,
			}); err != nil {
				s.logger.Warn("failed to publish sample stored", "error", err)
			}
		}
	}
}
