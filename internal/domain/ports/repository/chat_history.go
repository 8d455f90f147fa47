package repository

import (
	"context"

	"mood-aware-chat/internal/domain/model"
)

// ChatHistoryRepository is the durable per-user log of classified messages.
// Records are append-only; nothing here mutates or deletes a message.
type ChatHistoryRepository interface {
	// Append inserts one immutable record. The write must be durable before
	// the turn proceeds; a failure aborts the whole turn.
	Append(ctx context.Context, tx Tx, m *model.ChatMessage) error

	// RecentMoods returns up to n mood labels, newest first.
	RecentMoods(ctx context.Context, tx Tx, userID string, n int) ([]model.Mood, error)

	// RecentMessages returns up to n full records, newest first.
	RecentMessages(ctx context.Context, tx Tx, userID string, n int) ([]*model.ChatMessage, error)

	CountByUser(ctx context.Context, tx Tx, userID string) (int, error)
}

// MoodProfileRepository holds the per-user dominant mood summary.
type MoodProfileRepository interface {
	// Upsert creates the profile on first write and overwrites it after.
	Upsert(ctx context.Context, tx Tx, p *model.MoodProfile) error
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.MoodProfile, error)
}
