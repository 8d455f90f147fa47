package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/repository"
	"mood-aware-chat/internal/infra/redis"
)

// MoodProfileRepo stores the single per-user dominant mood row. Reads go
// through a Redis cache best-effort; the cache is refreshed on every upsert so
// profile lookups rarely touch Postgres.
var _ repository.MoodProfileRepository = (*MoodProfileRepo)(nil)

type MoodProfileRepo struct {
	pool  *pgxpool.Pool
	cache *redis.ProfileCache // optional
}

func NewMoodProfileRepo(pool *pgxpool.Pool, cache *redis.ProfileCache) *MoodProfileRepo {
	return &MoodProfileRepo{pool: pool, cache: cache}
}

func (r *MoodProfileRepo) Upsert(ctx context.Context, tx repository.Tx, p *model.MoodProfile) error {
	const q = `
INSERT INTO mood_profiles (user_id, dominant_mood, updated_at)
VALUES ($1,$2,$3)
ON CONFLICT (user_id) DO UPDATE SET
  dominant_mood = EXCLUDED.dominant_mood,
  updated_at = EXCLUDED.updated_at;`
	if _, err := execSQL(ctx, r.pool, tx, q, p.UserID, string(p.DominantMood), p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert mood profile: %w", err)
	}
	// Inside a still-open transaction the new value may yet roll back, so the
	// cache is only invalidated here; the next read repopulates it. A read
	// racing the open transaction can re-cache the pre-commit row; that stale
	// entry lasts until the user's next turn invalidates it again or the
	// cache TTL expires.
	if r.cache != nil {
		if tx == nil {
			_ = r.cache.Store(ctx, p)
		} else {
			_ = r.cache.Delete(ctx, p.UserID)
		}
	}
	return nil
}

func (r *MoodProfileRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.MoodProfile, error) {
	if r.cache != nil && tx == nil {
		if p, err := r.cache.Get(ctx, userID); err == nil && p != nil {
			return p, nil
		}
	}

	const q = `SELECT user_id, dominant_mood, updated_at FROM mood_profiles WHERE user_id=$1;`
	row, err := queryRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	var p model.MoodProfile
	var mood string
	if err := row.Scan(&p.UserID, &mood, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find mood profile: %w", err)
	}
	p.DominantMood = model.Mood(mood)

	if r.cache != nil {
		_ = r.cache.Store(ctx, &p)
	}
	return &p, nil
}
