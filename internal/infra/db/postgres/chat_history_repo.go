package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/repository"
	"mood-aware-chat/internal/infra/security"
)

// ChatHistoryRepo persists the append-only per-user message log. Message text
// is optionally encrypted at rest; mood labels and timestamps stay plaintext
// so the recency window can be read without decrypting anything.
var _ repository.ChatHistoryRepository = (*ChatHistoryRepo)(nil)

type ChatHistoryRepo struct {
	pool   *pgxpool.Pool
	cipher *security.MessageCipher // nil disables encryption at rest
}

func NewChatHistoryRepo(pool *pgxpool.Pool, cipher *security.MessageCipher) *ChatHistoryRepo {
	return &ChatHistoryRepo{pool: pool, cipher: cipher}
}

func (r *ChatHistoryRepo) Append(ctx context.Context, tx repository.Tx, m *model.ChatMessage) error {
	payload := m.Text
	encrypted := false
	if r.cipher != nil {
		ct, err := r.cipher.Encrypt(m.Text)
		if err != nil {
			return fmt.Errorf("encrypt message: %w", err)
		}
		payload = ct
		encrypted = true
	}

	const q = `
INSERT INTO chat_history (id, user_id, message, encrypted, mood, created_at)
VALUES ($1,$2,$3,$4,$5,$6);`
	if _, err := execSQL(ctx, r.pool, tx, q, m.ID, m.UserID, payload, encrypted, string(m.Mood), m.CreatedAt); err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	return nil
}

func (r *ChatHistoryRepo) RecentMoods(ctx context.Context, tx repository.Tx, userID string, n int) ([]model.Mood, error) {
	const q = `
SELECT mood FROM chat_history
 WHERE user_id=$1
 ORDER BY created_at DESC, id DESC
 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID, n)
	if err != nil {
		return nil, fmt.Errorf("recent moods: %w", err)
	}
	defer rows.Close()

	var out []model.Mood
	for rows.Next() {
		var mood string
		if err := rows.Scan(&mood); err != nil {
			return nil, err
		}
		out = append(out, model.Mood(mood))
	}
	return out, rows.Err()
}

func (r *ChatHistoryRepo) RecentMessages(ctx context.Context, tx repository.Tx, userID string, n int) ([]*model.ChatMessage, error) {
	const q = `
SELECT id, user_id, message, encrypted, mood, created_at FROM chat_history
 WHERE user_id=$1
 ORDER BY created_at DESC, id DESC
 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID, n)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()

	var out []*model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		var mood string
		var encrypted bool
		if err := rows.Scan(&m.ID, &m.UserID, &m.Text, &encrypted, &mood, &m.CreatedAt); err != nil {
			return nil, err
		}
		if encrypted {
			if r.cipher == nil {
				return nil, fmt.Errorf("message %s is encrypted but no cipher is configured", m.ID)
			}
			plain, err := r.cipher.Decrypt(m.Text)
			if err != nil {
				return nil, fmt.Errorf("decrypt message %s: %w", m.ID, err)
			}
			m.Text = plain
		}
		m.Mood = model.Mood(mood)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *ChatHistoryRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	row, err := queryRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM chat_history WHERE user_id=$1;`, userID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
