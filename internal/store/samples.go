package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/emotion"
)

type SampleRow struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Vector     emotion.Vector
	Confidence float64
	CapturedAt time.Time
	Age        int
	Gender     string
}

// CreateEmotionSample persists one classifier reading for a session.
func (s *Store) CreateEmotionSample(ctx context.Context, sessionID uuid.UUID, sample emotion.Sample) (uuid.UUID, error) {
	id := uuid.New()
	v := sample.Vector
	_, err := s.pool.Exec(ctx, `
		INSERT INTO emotion_samples
			(id, session_id, happy, sad, angry, surprised, fearful, disgusted, neutral, confidence, captured_at, age, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, sessionID, v.Happy, v.Sad, v.Angry, v.Surprised, v.Fearful, v.Disgusted, v.Neutral,
		sample.Confidence, sample.CapturedAt, sample.Age, sample.Gender,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert emotion sample: %w", err)
	}
	return id, nil
}

// ListEmotionSamples returns a session's samples ordered by capture time.
func (s *Store) ListEmotionSamples(ctx context.Context, sessionID uuid.UUID) ([]SampleRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, happy, sad, angry, surprised, fearful, disgusted, neutral, confidence, captured_at, age, gender
		FROM emotion_samples
		WHERE session_id = $1
		ORDER BY captured_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list emotion samples: %w", err)
	}
	defer rows.Close()

	var out []SampleRow
	for rows.Next() {
		var r SampleRow
		err := rows.Scan(&r.ID, &r.SessionID,
			&r.Vector.Happy, &r.Vector.Sad, &r.Vector.Angry, &r.Vector.Surprised,
			&r.Vector.Fearful, &r.Vector.Disgusted, &r.Vector.Neutral,
			&r.Confidence, &r.CapturedAt, &r.Age, &r.Gender)
		if err != nil {
			return nil, fmt.Errorf("scan emotion sample: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
