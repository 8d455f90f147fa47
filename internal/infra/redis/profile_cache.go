package redis

import (
	"context"
	"encoding/json"
	"time"

	"mood-aware-chat/internal/domain/model"
)

// ProfileCache keeps the latest dominant-mood profile per user so profile
// readbacks skip Postgres. Entries expire on their own; writers refresh or
// invalidate as appropriate.
type ProfileCache struct {
	client *Client
	ttl    time.Duration
}

func NewProfileCache(client *Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(userID string) string { return "mood_profile:" + userID }

func (c *ProfileCache) Store(ctx context.Context, p *model.MoodProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(p.UserID), data, c.ttl)
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*model.MoodProfile, error) {
	data, err := c.client.Get(ctx, profileKey(userID))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var p model.MoodProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ProfileCache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, profileKey(userID))
}
