// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/adapter"
	"mood-aware-chat/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- In-memory state shared by the fake repositories ----
//
// The fake transaction manager snapshots this state before running the
// callback and restores the snapshot when the callback errors, mimicking a
// rollback.

type memState struct {
	mu       sync.Mutex
	users    map[string]*model.User          // by ID
	byEmail  map[string]string               // email -> ID
	history  map[string][]*model.ChatMessage // newest last
	profiles map[string]*model.MoodProfile
}

func newMemState() *memState {
	return &memState{
		users:    map[string]*model.User{},
		byEmail:  map[string]string{},
		history:  map[string][]*model.ChatMessage{},
		profiles: map[string]*model.MoodProfile{},
	}
}

func (s *memState) snapshot() *memState {
	c := newMemState()
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.byEmail {
		c.byEmail[k] = v
	}
	for k, v := range s.history {
		msgs := make([]*model.ChatMessage, len(v))
		for i, m := range v {
			mm := *m
			msgs[i] = &mm
		}
		c.history[k] = msgs
	}
	for k, v := range s.profiles {
		p := *v
		c.profiles[k] = &p
	}
	return c
}

func (s *memState) restore(from *memState) {
	s.users = from.users
	s.byEmail = from.byEmail
	s.history = from.history
	s.profiles = from.profiles
}

// ---- Fake transaction manager ----

type fakeTxManager struct {
	state *memState
}

func (f *fakeTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	f.state.mu.Lock()
	snap := f.state.snapshot()
	f.state.mu.Unlock()

	if err := fn(ctx, repository.Tx(struct{}{})); err != nil {
		f.state.mu.Lock()
		f.state.restore(snap)
		f.state.mu.Unlock()
		return err
	}
	return nil
}

// ---- Fake user repository ----

type memUserRepo struct {
	state *memState
}

func (r *memUserRepo) Save(_ context.Context, _ repository.Tx, u *model.User) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if id, ok := r.state.byEmail[u.Email]; ok && id != u.ID {
		return domain.ErrAlreadyExists
	}
	cp := *u
	r.state.users[u.ID] = &cp
	r.state.byEmail[u.Email] = u.ID
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	id, ok := r.state.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.state.users[id]
	return &cp, nil
}

func (r *memUserRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	u, ok := r.state.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) CountUsers(_ context.Context, _ repository.Tx) (int, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return len(r.state.users), nil
}

// ---- Fake chat history repository ----

type memHistoryRepo struct {
	state *memState
}

func (r *memHistoryRepo) Append(_ context.Context, _ repository.Tx, m *model.ChatMessage) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	cp := *m
	r.state.history[m.UserID] = append(r.state.history[m.UserID], &cp)
	return nil
}

func (r *memHistoryRepo) newestFirst(userID string, n int) []*model.ChatMessage {
	msgs := r.state.history[userID]
	out := make([]*model.ChatMessage, len(msgs))
	for i, m := range msgs {
		cp := *m
		out[len(msgs)-1-i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (r *memHistoryRepo) RecentMoods(_ context.Context, _ repository.Tx, userID string, n int) ([]model.Mood, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	msgs := r.newestFirst(userID, n)
	moods := make([]model.Mood, len(msgs))
	for i, m := range msgs {
		moods[i] = m.Mood
	}
	return moods, nil
}

func (r *memHistoryRepo) RecentMessages(_ context.Context, _ repository.Tx, userID string, n int) ([]*model.ChatMessage, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return r.newestFirst(userID, n), nil
}

func (r *memHistoryRepo) CountByUser(_ context.Context, _ repository.Tx, userID string) (int, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return len(r.state.history[userID]), nil
}

// ---- Fake mood profile repository ----

type memProfileRepo struct {
	state *memState
}

func (r *memProfileRepo) Upsert(_ context.Context, _ repository.Tx, p *model.MoodProfile) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	cp := *p
	r.state.profiles[p.UserID] = &cp
	return nil
}

func (r *memProfileRepo) FindByUser(_ context.Context, _ repository.Tx, userID string) (*model.MoodProfile, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	p, ok := r.state.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ---- Fake semantic memory ----

type indexedText struct {
	text string
	meta adapter.Metadata
}

type fakeMemory struct {
	mu      sync.Mutex
	byUser  map[string][]indexedText
	hits    []adapter.SemanticEntry // returned from RetrieveSimilar
	idxErr  error
	retErr  error
	indexed int
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{byUser: map[string][]indexedText{}}
}

func (f *fakeMemory) Index(_ context.Context, userID, text string, meta adapter.Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idxErr != nil {
		return f.idxErr
	}
	f.byUser[userID] = append(f.byUser[userID], indexedText{text: text, meta: meta})
	f.indexed++
	return nil
}

func (f *fakeMemory) RetrieveSimilar(_ context.Context, userID, _ string, k int) ([]adapter.SemanticEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retErr != nil {
		return nil, f.retErr
	}
	hits := f.hits
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// ---- Fake AI adapter ----

type fakeAI struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	delay   time.Duration
}

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) CountTokens(_ context.Context, msgs []adapter.Message) (int, error) {
	n := 0
	for _, m := range msgs {
		n += len(m.Content) / 4
	}
	return n, nil
}

func (f *fakeAI) Chat(ctx context.Context, msgs []adapter.Message) (string, error) {
	reply, _, err := f.ChatWithUsage(ctx, msgs)
	return reply, err
}

func (f *fakeAI) ChatWithUsage(ctx context.Context, msgs []adapter.Message) (string, adapter.Usage, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", adapter.Usage{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(msgs) > 0 {
		f.prompts = append(f.prompts, msgs[len(msgs)-1].Content)
	}
	if f.err != nil {
		return "", adapter.Usage{}, f.err
	}
	return f.reply, adapter.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func (f *fakeAI) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// ---- In-memory Locker (implements redis.Locker port) ----

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]string{}}
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", domain.ErrTurnInProgress
	}
	token := "tok-" + key
	l.held[key] = token
	return token, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}
