// File: internal/usecase/turn_uc_test.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/adapter"
	"mood-aware-chat/internal/domain/ports/repository"
	"mood-aware-chat/internal/sentiment"
	"mood-aware-chat/internal/session"
)

type turnFixture struct {
	uc      *turnUC
	state   *memState
	history *memHistoryRepo
	memory  *fakeMemory
	ai      *fakeAI
	locker  *fakeLocker
	userID  string
}

func newTurnFixture(t *testing.T) *turnFixture {
	t.Helper()
	state := newMemState()
	users := &memUserRepo{state: state}
	history := &memHistoryRepo{state: state}
	profiles := &memProfileRepo{state: state}
	tm := &fakeTxManager{state: state}
	memory := newFakeMemory()
	ai := &fakeAI{reply: "hello there"}
	locker := newFakeLocker()
	sessions := session.NewManager(time.Hour, 10, 10)

	u, err := model.NewUser("", "turn@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	if err := users.Save(context.Background(), repository.NoTX, u); err != nil {
		t.Fatal(err)
	}

	uc := NewTurnUseCase(history, profiles, users, tm, sentiment.New(), memory, ai, sessions, locker,
		TurnConfig{MoodWindow: 5, ContextK: 3, HistoryDepth: 5}, testLogger())
	return &turnFixture{uc: uc, state: state, history: history, memory: memory, ai: ai, locker: locker, userID: u.ID}
}

func TestHandleTurnFirstMessageNeutralBaseline(t *testing.T) {
	f := newTurnFixture(t)

	res, err := f.uc.HandleTurn(context.Background(), f.userID, "what is the capital of France?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Mood != model.MoodNeutral {
		t.Fatalf("mood: want neutral, got %s", res.Mood)
	}
	if res.DominantMood != model.MoodNeutral {
		t.Fatalf("dominant: want neutral, got %s", res.DominantMood)
	}
	if res.Reply != "hello there" {
		t.Fatalf("reply: got %q", res.Reply)
	}
	if n, _ := f.history.CountByUser(context.Background(), repository.NoTX, f.userID); n != 1 {
		t.Fatalf("history count: want 1, got %d", n)
	}
	if f.memory.indexed != 1 {
		t.Fatalf("indexed: want 1, got %d", f.memory.indexed)
	}
}

func TestHandleTurnDominantMoodShifts(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	happy := []string{
		"I am so happy today!",
		"this is wonderful news",
		"what an amazing day",
		"I love this, great work",
		"feeling fantastic, thanks!",
	}
	var last *TurnResult
	for _, msg := range happy {
		res, err := f.uc.HandleTurn(ctx, f.userID, msg)
		if err != nil {
			t.Fatalf("turn %q: %v", msg, err)
		}
		last = res
	}
	if last.Mood != model.MoodHappy {
		t.Fatalf("mood: want happy, got %s", last.Mood)
	}
	if last.DominantMood != model.MoodHappy {
		t.Fatalf("dominant: want happy, got %s", last.DominantMood)
	}

	// One sad message against a window of five does not flip the aggregate.
	res, err := f.uc.HandleTurn(ctx, f.userID, "this is terrible, I feel awful")
	if err != nil {
		t.Fatal(err)
	}
	if res.Mood != model.MoodSad {
		t.Fatalf("mood: want sad, got %s", res.Mood)
	}
	if res.DominantMood != model.MoodHappy {
		t.Fatalf("dominant: want happy, got %s", res.DominantMood)
	}
}

func TestHandleTurnRollsBackOnGenerationFailure(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	f.ai.err = errors.New("provider exploded")
	if _, err := f.uc.HandleTurn(ctx, f.userID, "hello"); err == nil {
		t.Fatal("expected error")
	}
	if n, _ := f.history.CountByUser(ctx, repository.NoTX, f.userID); n != 0 {
		t.Fatalf("history should be rolled back, got %d rows", n)
	}
	if _, err := (&memProfileRepo{state: f.state}).FindByUser(ctx, repository.NoTX, f.userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("profile should be rolled back, got %v", err)
	}
	// The vector write is outside the transaction and stays behind.
	if f.memory.indexed != 1 {
		t.Fatalf("indexed: want 1 orphan, got %d", f.memory.indexed)
	}

	// The lock must be released so the user can retry.
	f.ai.err = nil
	if _, err := f.uc.HandleTurn(ctx, f.userID, "hello again"); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestHandleTurnPromptCarriesMoodContext(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	f.memory.hits = []adapter.SemanticEntry{
		{Text: "I adopted a puppy last week", Score: 0.9},
		{Text: "my puppy chewed the couch", Score: 0.7},
	}
	if _, err := f.uc.HandleTurn(ctx, f.userID, "I am so happy about my dog!"); err != nil {
		t.Fatal(err)
	}

	prompt := f.ai.lastPrompt()
	for _, want := range []string{
		"Dominant Mood: happy",
		"Last Interaction Mood: happy",
		"I adopted a puppy last week",
		"I am so happy about my dog! (Mood: happy)",
		"[Question]",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestHandleTurnHistoryOldestFirstInPrompt(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	if _, err := f.uc.HandleTurn(ctx, f.userID, "first message"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.HandleTurn(ctx, f.userID, "second message"); err != nil {
		t.Fatal(err)
	}

	prompt := f.ai.lastPrompt()
	i := strings.Index(prompt, "first message (Mood:")
	j := strings.Index(prompt, "second message (Mood:")
	if i < 0 || j < 0 || i > j {
		t.Fatalf("history out of order (first=%d second=%d):\n%s", i, j, prompt)
	}
}

func TestNewTurnUseCaseDefaults(t *testing.T) {
	uc := NewTurnUseCase(nil, nil, nil, nil, sentiment.New(), nil, nil, nil, nil, TurnConfig{}, testLogger())
	if uc.cfg.MoodWindow != 5 {
		t.Fatalf("mood window: want 5, got %d", uc.cfg.MoodWindow)
	}
	if uc.cfg.HistoryDepth != 5 {
		t.Fatalf("history depth: want 5, got %d", uc.cfg.HistoryDepth)
	}
	if uc.cfg.ContextK != 3 {
		t.Fatalf("context k: want 3, got %d", uc.cfg.ContextK)
	}
}

func TestHandleTurnHistoryWindowCapped(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	msgs := []string{
		"message one", "message two", "message three", "message four",
		"message five", "message six", "message seven",
	}
	for _, msg := range msgs {
		if _, err := f.uc.HandleTurn(ctx, f.userID, msg); err != nil {
			t.Fatalf("turn %q: %v", msg, err)
		}
	}

	// Five most recent messages, the current one included, make the window.
	prompt := f.ai.lastPrompt()
	for _, want := range []string{"message three", "message four", "message five", "message six", "message seven"} {
		if !strings.Contains(prompt, want+" (Mood:") {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	for _, stale := range []string{"message one", "message two"} {
		if strings.Contains(prompt, stale+" (Mood:") {
			t.Fatalf("prompt should not carry %q:\n%s", stale, prompt)
		}
	}
}

func TestHandleTurnBufferedRepliesRenderedOnce(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	if _, err := f.uc.HandleTurn(ctx, f.userID, "first message"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.HandleTurn(ctx, f.userID, "tell me more"); err != nil {
		t.Fatal(err)
	}

	// The stored history already carries every question; the session buffer
	// must only contribute the assistant reply, right after its question.
	prompt := f.ai.lastPrompt()
	if n := strings.Count(prompt, "first message (Mood:"); n != 1 {
		t.Fatalf("first question rendered %d times:\n%s", n, prompt)
	}
	i := strings.Index(prompt, "first message (Mood:")
	j := strings.Index(prompt, "assistant: hello there")
	k := strings.Index(prompt, "tell me more (Mood:")
	if j < 0 || j < i || k < j {
		t.Fatalf("reply misplaced (question=%d reply=%d next=%d):\n%s", i, j, k, prompt)
	}
}

func TestHandleTurnValidation(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	if _, err := f.uc.HandleTurn(ctx, f.userID, "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("blank message: want ErrInvalidArgument, got %v", err)
	}
	if _, err := f.uc.HandleTurn(ctx, "no-such-user", "hello"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}
}

func TestHandleTurnLockContention(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	// Simulate a turn already in flight.
	if _, err := f.locker.TryLock(ctx, "turn_lock:"+f.userID, time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.HandleTurn(ctx, f.userID, "hello"); !errors.Is(err, domain.ErrTurnInProgress) {
		t.Fatalf("want ErrTurnInProgress, got %v", err)
	}
}

func TestHandleTurnGenerationTimeout(t *testing.T) {
	f := newTurnFixture(t)
	f.ai.delay = 200 * time.Millisecond
	f.uc.cfg.GenerateTimeout = 20 * time.Millisecond

	_, err := f.uc.HandleTurn(context.Background(), f.userID, "hello")
	if !errors.Is(err, domain.ErrAITimeout) {
		t.Fatalf("want ErrAITimeout, got %v", err)
	}
}

func TestHandleTurnCountsAreIsolatedPerUser(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	other, err := model.NewUser("", "other@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	users := &memUserRepo{state: f.state}
	if err := users.Save(ctx, repository.NoTX, other); err != nil {
		t.Fatal(err)
	}

	if _, err := f.uc.HandleTurn(ctx, f.userID, "hello from user one"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.HandleTurn(ctx, other.ID, "hello from user two"); err != nil {
		t.Fatal(err)
	}

	if n, _ := f.history.CountByUser(ctx, repository.NoTX, f.userID); n != 1 {
		t.Fatalf("user one history: want 1, got %d", n)
	}
	if n, _ := f.history.CountByUser(ctx, repository.NoTX, other.ID); n != 1 {
		t.Fatalf("user two history: want 1, got %d", n)
	}
	if len(f.memory.byUser[f.userID]) != 1 || len(f.memory.byUser[other.ID]) != 1 {
		t.Fatalf("semantic collections not isolated: %v", f.memory.byUser)
	}
}
