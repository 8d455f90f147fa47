package model

import (
	"strings"
	"time"

	"mood-aware-chat/internal/domain"

	"github.com/google/uuid"
)

// User is the identity anchor: it owns chat history, a mood profile and a
// semantic memory collection, all keyed by ID.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewUser(id, email, passwordHash string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	if passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

func (u *User) Touch() { u.LastActiveAt = time.Now() }
