package web

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/usecase"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Fake user usecase ----

type fakeUserUC struct {
	users  map[string]*model.User // by email
	nextID string
}

func newFakeUserUC() *fakeUserUC {
	return &fakeUserUC{users: map[string]*model.User{}, nextID: "user-1"}
}

func (f *fakeUserUC) Register(_ context.Context, email, password string) (*model.User, error) {
	if len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}
	if _, ok := f.users[email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u, err := model.NewUser(f.nextID, email, "hashed:"+password)
	if err != nil {
		return nil, err
	}
	f.users[u.Email] = u
	return u, nil
}

func (f *fakeUserUC) Authenticate(_ context.Context, email, password string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok || u.PasswordHash != "hashed:"+password {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func (f *fakeUserUC) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserUC) Count(_ context.Context) (int, error) { return len(f.users), nil }

// ---- Fake turn usecase ----

type fakeTurnUC struct {
	result *usecase.TurnResult
	err    error
	gotMsg string
	gotUID string
}

func (f *fakeTurnUC) HandleTurn(_ context.Context, userID, message string) (*usecase.TurnResult, error) {
	f.gotUID = userID
	f.gotMsg = message
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// ---- Fake profile usecase ----

type fakeProfileUC struct {
	mood model.Mood
}

func (f *fakeProfileUC) DominantMood(_ context.Context, userID string) (*model.MoodProfile, error) {
	mood := f.mood
	if mood == "" {
		mood = model.MoodNeutral
	}
	return &model.MoodProfile{UserID: userID, DominantMood: mood, UpdatedAt: time.Now()}, nil
}

// ---- Fake rate limiter ----

type fakeLimiter struct {
	allow bool
	err   error
}

func (f *fakeLimiter) Allow(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	return f.allow, f.err
}
