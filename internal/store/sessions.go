package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID
	StartedAt time.Time
	EndedAt   *time.Time
	Active    bool
}

// CreateSession starts a new active session.
func (s *Store) CreateSession(ctx context.Context) (Session, error) {
	sess := Session{ID: uuid.New(), StartedAt: time.Now().UTC(), Active: true}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (id, started_at, active)
		VALUES ($1, $2, true)`,
		sess.ID, sess.StartedAt,
	)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// EndSession marks a session inactive and records its end time.
func (s *Store) EndSession(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sessions SET active = false, ended_at = now()
		WHERE id = $1 AND active`,
		id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found or already ended", id)
	}
	return nil
}

// GetSession fetches a session by ID.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, started_at, ended_at, active
		FROM sessions WHERE id = $1`, id)

	var sess Session
	if err := row.Scan(&sess.ID, &sess.StartedAt, &sess.EndedAt, &sess.Active); err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}
