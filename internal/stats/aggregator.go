package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/emotion"
	"github.com/attune-labs/attune/internal/store"
)

// Reader is the slice of the store the aggregator needs.
type Reader interface {
	GetSession(ctx context.Context, id uuid.UUID) (store.Session, error)
	ListEmotionSamples(ctx context.Context, sessionID uuid.UUID) ([]store.SampleRow, error)
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]store.MessageRow, error)
}

// SessionStats is a derived snapshot, recomputed on every request.
type SessionStats struct {
	DurationSeconds          int             `json:"duration_seconds"`
	DetectionCount           int             `json:"detection_count"`
	AverageConfidencePercent int             `json:"average_confidence_percent"`
	DominantEmotion          string          `json:"dominant_emotion"`
	MessageCount             int             `json:"message_count"`
	LatestVector             *emotion.Vector `json:"latest_vector,omitempty"`
}

// Aggregator recomputes session statistics from persisted samples and
// messages. It holds no state of its own and is safe for concurrent use.
type Aggregator struct {
	reader Reader
	now    func() time.Time
}

func NewAggregator(reader Reader) *Aggregator {
	return &Aggregator{reader: reader, now: time.Now}
}

// Compute derives a SessionStats snapshot for the given session. The
// dominant emotion is resolved over the per-channel totals with the
// same tie-break order used for live display.
func (a *Aggregator) Compute(ctx context.Context, sessionID uuid.UUID) (SessionStats, error) {
	sess, err := a.reader.GetSession(ctx, sessionID)
	if err != nil {
		return SessionStats{}, fmt.Errorf("get session: %w", err)
	}

	samples, err := a.reader.ListEmotionSamples(ctx, sessionID)
	if err != nil {
		return SessionStats{}, fmt.Errorf("list samples: %w", err)
	}

	messages, err := a.reader.ListMessages(ctx, sessionID)
	if err != nil {
		return SessionStats{}, fmt.Errorf("list messages: %w", err)
	}

	out := SessionStats{
		DetectionCount:  len(samples),
		MessageCount:    len(messages),
		DominantEmotion: "neutral",
	}

	switch {
	case sess.Active:
		out.DurationSeconds = int(a.now().Sub(sess.StartedAt).Seconds())
	case sess.EndedAt != nil:
		out.DurationSeconds = int(sess.EndedAt.Sub(sess.StartedAt).Seconds())
	}

	if len(samples) > 0 {
		var totals emotion.Vector
		var confidenceSum float64
		latest := samples[0]
		for _, s := range samples {
			totals = totals.Add(s.Vector)
			confidenceSum += s.Confidence
			if s.CapturedAt.After(latest.CapturedAt) {
				latest = s
			}
		}
		name, _ := emotion.Dominant(totals)
		out.DominantEmotion = name
		out.AverageConfidencePercent = int(math.Round(confidenceSum / float64(len(samples)) * 100))
		v := latest.Vector
		out.LatestVector = &v
	}

	return out, nil
}
