// File: internal/usecase/turn_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/adapter"
	"mood-aware-chat/internal/domain/ports/repository"
	"mood-aware-chat/internal/infra/logging"
	"mood-aware-chat/internal/infra/metrics"
	"mood-aware-chat/internal/infra/redis"
	"mood-aware-chat/internal/sentiment"
	"mood-aware-chat/internal/session"
)

// Compile-time check
var _ TurnUseCase = (*turnUC)(nil)

// TurnResult is what a completed turn reports back to the caller.
type TurnResult struct {
	Reply        string
	Mood         model.Mood
	DominantMood model.Mood
}

// TurnUseCase runs the whole chat turn pipeline: classify, append,
// re-aggregate, index, retrieve, generate.
type TurnUseCase interface {
	HandleTurn(ctx context.Context, userID, message string) (*TurnResult, error)
}

// TurnConfig bounds the pipeline.
type TurnConfig struct {
	MoodWindow      int           // moods in the dominant-mood vote
	ContextK        int           // retrieved snippets per turn
	HistoryDepth    int           // recent messages rendered into the prompt
	LockTTL         time.Duration // per-user turn lock
	GenerateTimeout time.Duration
}

type turnUC struct {
	history  repository.ChatHistoryRepository
	profiles repository.MoodProfileRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	analyzer *sentiment.Analyzer
	memory   adapter.SemanticMemory
	ai       adapter.AIServiceAdapter
	sessions *session.Manager
	locker   redis.Locker
	cfg      TurnConfig
	log      *zerolog.Logger
}

func NewTurnUseCase(
	history repository.ChatHistoryRepository,
	profiles repository.MoodProfileRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	analyzer *sentiment.Analyzer,
	memory adapter.SemanticMemory,
	ai adapter.AIServiceAdapter,
	sessions *session.Manager,
	locker redis.Locker,
	cfg TurnConfig,
	logger *zerolog.Logger,
) *turnUC {
	if cfg.MoodWindow <= 0 {
		cfg.MoodWindow = 5
	}
	if cfg.ContextK <= 0 {
		cfg.ContextK = 3
	}
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = 5
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 30 * time.Second
	}
	return &turnUC{
		history:  history,
		profiles: profiles,
		users:    users,
		tm:       tm,
		analyzer: analyzer,
		memory:   memory,
		ai:       ai,
		sessions: sessions,
		locker:   locker,
		cfg:      cfg,
		log:      logger,
	}
}

// HandleTurn processes one user message end to end. The relational steps run
// inside a single transaction, so a failure anywhere in the pipeline,
// generation included, leaves no trace of the turn in history or the profile.
// The semantic index write cannot participate in that transaction; a turn
// that fails after it may leave an orphaned vector, which only ever adds a
// retrieval candidate.
func (t *turnUC) HandleTurn(ctx context.Context, userID, message string) (*TurnResult, error) {
	log := logging.With(ctx, t.log)
	defer logging.TraceDuration(log, "TurnUC.HandleTurn")()

	message = strings.TrimSpace(message)
	if message == "" {
		metrics.IncTurn("invalid")
		return nil, domain.ErrInvalidArgument
	}
	if _, err := t.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		metrics.IncTurn("failure")
		return nil, err
	}

	// One turn at a time per user: concurrent turns would interleave their
	// append and aggregate steps and vote over a torn mood window.
	token, err := t.locker.TryLock(ctx, redis.TurnLockKey(userID), t.cfg.LockTTL)
	if err != nil {
		metrics.IncTurn("locked")
		return nil, err
	}
	defer func() {
		if uerr := t.locker.Unlock(context.WithoutCancel(ctx), redis.TurnLockKey(userID), token); uerr != nil {
			log.Warn().Err(uerr).Msg("turn lock release failed; TTL will reap it")
		}
	}()

	mood := t.analyzer.Classify(message)
	metrics.IncMood(string(mood))

	var result *TurnResult
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err = t.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		entry := model.NewChatMessage(userID, message, mood)
		if err := t.history.Append(ctx, tx, entry); err != nil {
			return err
		}

		// The window includes the message just appended.
		window, err := t.history.RecentMoods(ctx, tx, userID, t.cfg.MoodWindow)
		if err != nil {
			return err
		}
		dominant := model.DominantMood(window)
		profile := &model.MoodProfile{UserID: userID, DominantMood: dominant, UpdatedAt: time.Now().UTC()}
		if err := t.profiles.Upsert(ctx, tx, profile); err != nil {
			return err
		}
		metrics.IncDominantUpdate(string(dominant))

		if err := t.memory.Index(ctx, userID, message, adapter.Metadata{
			UserID:       userID,
			Mood:         mood,
			DominantMood: dominant,
			Timestamp:    entry.CreatedAt,
		}); err != nil {
			return err
		}

		recent, err := t.history.RecentMessages(ctx, tx, userID, t.cfg.HistoryDepth)
		if err != nil {
			return err
		}
		lastMood := model.MoodNeutral
		if len(recent) > 0 {
			lastMood = recent[0].Mood
		}

		hits, err := t.memory.RetrieveSimilar(ctx, userID, message, t.cfg.ContextK)
		if err != nil {
			return err
		}
		metrics.ObserveRetrieval(len(hits))

		lines := historyLines(recent, t.sessions.RecentExchanges(userID, t.cfg.HistoryDepth))
		prompt, err := buildPrompt(promptInputs{
			DominantMood: dominant,
			LastMood:     lastMood,
			Context:      contextBlock(hits),
			ChatHistory:  strings.Join(lines, "\n"),
			Question:     message,
		})
		if err != nil {
			return err
		}

		reply, err := t.generate(ctx, prompt)
		if err != nil {
			return err
		}

		result = &TurnResult{Reply: reply, Mood: mood, DominantMood: dominant}
		return nil
	})
	if err != nil {
		metrics.IncTurn("failure")
		log.Error().Err(err).Str("message", logging.Redact(message, false)).Msg("turn failed")
		return nil, err
	}

	// Buffered only after commit so a rolled-back turn never conditions a
	// later prompt.
	t.sessions.Record(userID, session.Exchange{
		Question: message,
		Reply:    result.Reply,
		Mood:     result.Mood,
		At:       time.Now(),
	})
	metrics.IncTurn("success")
	return result, nil
}

func (t *turnUC) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.GenerateTimeout)
	defer cancel()

	start := time.Now()
	reply, usage, err := t.ai.ChatWithUsage(ctx, []adapter.Message{{Role: "user", Content: prompt}})
	metrics.ObserveGeneration(t.ai.Name(), usage.PromptTokens, usage.CompletionTokens,
		int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.ErrAITimeout
		}
		return "", err
	}
	return reply, nil
}
