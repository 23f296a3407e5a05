package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/emotion"
)

type MessageRow struct {
	ID             uuid.UUID
	SessionID      uuid.UUID
	IsUser         bool
	Content        string
	Provider       string
	EmotionContext *emotion.Vector
	CreatedAt      time.Time
}

// CreateMessage persists one chat message. EmotionContext is optional;
// Provider is empty for user messages.
func (s *Store) CreateMessage(ctx context.Context, sessionID uuid.UUID, isUser bool, content, providerName string, emotionContext *emotion.Vector) (MessageRow, error) {
	msg := MessageRow{
		ID:             uuid.New(),
		SessionID:      sessionID,
		IsUser:         isUser,
		Content:        content,
		Provider:       providerName,
		EmotionContext: emotionContext,
		CreatedAt:      time.Now().UTC(),
	}

	if emotionContext != nil {
		v := emotionContext
		_, err := s.pool.Exec(ctx, `
			INSERT INTO messages
				(id, session_id, is_user, content, provider, created_at,
				 ctx_happy, ctx_sad, ctx_angry, ctx_surprised, ctx_fearful, ctx_disgusted, ctx_neutral)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			msg.ID, sessionID, isUser, content, providerName, msg.CreatedAt,
			v.Happy, v.Sad, v.Angry, v.Surprised, v.Fearful, v.Disgusted, v.Neutral,
		)
		if err != nil {
			return MessageRow{}, fmt.Errorf("insert message: %w", err)
		}
	} else {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO messages (id, session_id, is_user, content, provider, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			msg.ID, sessionID, isUser, content, providerName, msg.CreatedAt,
		)
		if err != nil {
			return MessageRow{}, fmt.Errorf("insert message: %w", err)
		}
	}
	return msg, nil
}

// ListMessages returns a session's messages in chronological order.
func (s *Store) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]MessageRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, is_user, content, provider, created_at,
		       ctx_happy, ctx_sad, ctx_angry, ctx_surprised, ctx_fearful, ctx_disgusted, ctx_neutral
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []MessageRow
	for rows.Next() {
		var r MessageRow
		var happy, sad, angry, surprised, fearful, disgusted, neutral *float64
		err := rows.Scan(&r.ID, &r.SessionID, &r.IsUser, &r.Content, &r.Provider, &r.CreatedAt,
			&happy, &sad, &angry, &surprised, &fearful, &disgusted, &neutral)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if happy != nil {
			r.EmotionContext = &emotion.Vector{
				Happy: *happy, Sad: *sad, Angry: *angry, Surprised: *surprised,
				Fearful: *fearful, Disgusted: *disgusted, Neutral: *neutral,
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
