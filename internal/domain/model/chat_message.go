package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// ChatMessage is an immutable record of one user turn. The ULID identifier is
// lexicographically time-ordered, so it doubles as a tie-breaker when two
// messages share a timestamp.
type ChatMessage struct {
	ID        string
	UserID    string
	Text      string
	Mood      Mood
	CreatedAt time.Time
}

func NewChatMessage(userID, text string, mood Mood) *ChatMessage {
	return &ChatMessage{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Text:      text,
		Mood:      mood,
		CreatedAt: time.Now().UTC(),
	}
}

// MoodProfile is the per-user rolling summary. At most one exists per user;
// it is created lazily on the first turn and overwritten on every turn after.
type MoodProfile struct {
	UserID       string
	DominantMood Mood
	UpdatedAt    time.Time
}

func NewMoodProfile(userID string) *MoodProfile {
	return &MoodProfile{UserID: userID, DominantMood: MoodNeutral, UpdatedAt: time.Now()}
}
