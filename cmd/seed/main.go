package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4"

	"mood-aware-chat/internal/config"
	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/repository"
	pg "mood-aware-chat/internal/infra/db/postgres"
	"mood-aware-chat/internal/sentiment"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo account with a short classified history so the /chat and
// /profile/mood endpoints have data to work with right after setup.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := pg.NewUserRepo(pool)
	history := pg.NewChatHistoryRepo(pool, nil)
	profiles := pg.NewMoodProfileRepo(pool, nil)
	tm := pg.NewTxManager(pool)

	const email = "demo@example.com"
	if existing, err := users.FindByEmail(ctx, repository.NoTX, email); err == nil && existing != nil {
		fmt.Printf("demo user already present (id=%s). No changes.\n", existing.ID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	demo, err := model.NewUser("", email, string(hash))
	if err != nil {
		log.Fatalf("new user: %v", err)
	}

	messages := []string{
		"I just started using this app, looks nice",
		"I am so happy with how today went!",
		"work was terrible, everything failed",
		"feeling great again, thanks for listening",
		"what should I cook for dinner?",
	}

	analyzer := sentiment.New()
	err = tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := users.Save(ctx, tx, demo); err != nil {
			return err
		}
		window := make([]model.Mood, 0, len(messages))
		for _, text := range messages {
			mood := analyzer.Classify(text)
			if err := history.Append(ctx, tx, model.NewChatMessage(demo.ID, text, mood)); err != nil {
				return err
			}
			// newest first, like the repository returns it
			window = append([]model.Mood{mood}, window...)
		}
		if len(window) > 5 {
			window = window[:5]
		}
		return profiles.Upsert(ctx, tx, &model.MoodProfile{
			UserID:       demo.ID,
			DominantMood: model.DominantMood(window),
			UpdatedAt:    time.Now().UTC(),
		})
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Printf("seeded: %s (id=%s, %d messages, password=demo-password)\n", email, demo.ID, len(messages))
}
