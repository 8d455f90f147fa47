package adapter

import (
	"context"
	"time"

	"mood-aware-chat/internal/domain/model"
)

// Embedder maps texts to dense vectors. Calls with the same input must return
// the same vectors for retrieval replay to be idempotent.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Metadata travels with every indexed message.
type Metadata struct {
	UserID       string
	Mood         model.Mood
	DominantMood model.Mood
	Timestamp    time.Time
}

// SemanticEntry is one retrieval hit, most-similar first.
type SemanticEntry struct {
	Text  string
	Meta  Metadata
	Score float64
}

// SemanticMemory is the per-user similarity-searchable store of past message
// texts. Each user gets an isolated collection; queries never cross users.
type SemanticMemory interface {
	Index(ctx context.Context, userID, text string, meta Metadata) error

	// RetrieveSimilar returns up to k entries from the user's collection,
	// most-similar first. A user with no entries yields an empty slice.
	RetrieveSimilar(ctx context.Context, userID, query string, k int) ([]SemanticEntry, error)
}
