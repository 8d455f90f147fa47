//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"mood-aware-chat/internal/domain"
)

// --- User Model Tests ---

func TestNewUser(t *testing.T) {
	t.Run("should create a new user successfully", func(t *testing.T) {
		startTime := time.Now()
		user, err := NewUser("", "Someone@Example.COM", "hashed-password")

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if user == nil {
			t.Fatal("expected user to be non-nil, but got nil")
		}
		if user.ID == "" {
			t.Error("expected user ID to be non-empty")
		}
		if user.Email != "someone@example.com" {
			t.Errorf("expected normalized email, but got %s", user.Email)
		}
		if time.Since(startTime) > time.Second {
			t.Errorf("user.RegisteredAt timestamp is too far from current time")
		}
	})

	t.Run("should reject invalid inputs", func(t *testing.T) {
		cases := []struct {
			name  string
			email string
			hash  string
		}{
			{"empty email", "", "hash"},
			{"email without at sign", "not-an-email", "hash"},
			{"empty hash", "ok@example.com", ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := NewUser("", tc.email, tc.hash); !errors.Is(err, domain.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
			})
		}
	})
}

func TestUserTouch(t *testing.T) {
	user, err := NewUser("", "a@b.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	before := user.LastActiveAt
	time.Sleep(time.Millisecond)
	user.Touch()
	if !user.LastActiveAt.After(before) {
		t.Error("expected Touch to advance LastActiveAt")
	}
}

// --- ChatMessage Model Tests ---

func TestNewChatMessage(t *testing.T) {
	m := NewChatMessage("user-1", "hello there", MoodNeutral)
	if m.ID == "" {
		t.Error("expected a generated message ID")
	}
	if m.UserID != "user-1" || m.Text != "hello there" || m.Mood != MoodNeutral {
		t.Errorf("unexpected fields: %+v", m)
	}
	if m.CreatedAt.Location() != time.UTC {
		t.Error("expected CreatedAt in UTC")
	}

	// ULIDs order by creation time, which the history queries rely on for
	// same-timestamp tie-breaks.
	m2 := NewChatMessage("user-1", "second", MoodNeutral)
	if !(m.ID < m2.ID) {
		t.Errorf("expected IDs to be time-ordered: %s then %s", m.ID, m2.ID)
	}
}

func TestNewMoodProfile(t *testing.T) {
	p := NewMoodProfile("user-1")
	if p.DominantMood != MoodNeutral {
		t.Errorf("expected neutral default, got %s", p.DominantMood)
	}
}
