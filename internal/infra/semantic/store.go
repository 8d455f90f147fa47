package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/adapter"
)

var _ adapter.SemanticMemory = (*Store)(nil)

// Store keeps embedding vectors in Postgres and ranks candidates in-process.
// Collections are per user, so a query only ever scans that user's rows.
type Store struct {
	pool     *pgxpool.Pool
	embedder adapter.Embedder
}

func NewStore(pool *pgxpool.Pool, embedder adapter.Embedder) *Store {
	return &Store{pool: pool, embedder: embedder}
}

func collectionFor(userID string) string { return "user_" + userID }

func (s *Store) Index(ctx context.Context, userID, text string, meta adapter.Metadata) error {
	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("semantic index: %w", err)
	}
	if len(vecs) != 1 {
		return fmt.Errorf("semantic index: got %d vectors for one text", len(vecs))
	}
	ts := meta.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO semantic_entries (id, collection, user_id, text, mood, dominant_mood, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), collectionFor(userID), userID, text,
		string(meta.Mood), string(meta.DominantMood), vecs[0], ts,
	)
	if err != nil {
		return fmt.Errorf("semantic index: %w", err)
	}
	return nil
}

func (s *Store) RetrieveSimilar(ctx context.Context, userID, query string, k int) ([]adapter.SemanticEntry, error) {
	if k <= 0 {
		return nil, nil
	}
	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("semantic retrieve: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("semantic retrieve: got %d vectors for one text", len(vecs))
	}
	qv := vecs[0]

	rows, err := s.pool.Query(ctx, `
		SELECT id, text, mood, dominant_mood, embedding, created_at
		FROM semantic_entries
		WHERE collection = $1`,
		collectionFor(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("semantic retrieve: %w", err)
	}
	defer rows.Close()

	var cands []candidate
	for rows.Next() {
		var (
			id        string
			text      string
			mood      string
			dominant  string
			embedding []float32
			createdAt time.Time
		)
		if err := rows.Scan(&id, &text, &mood, &dominant, &embedding, &createdAt); err != nil {
			return nil, fmt.Errorf("semantic retrieve: %w", err)
		}
		cands = append(cands, candidate{
			id:    id,
			score: cosine(qv, embedding),
			entry: adapter.SemanticEntry{
				Text: text,
				Meta: adapter.Metadata{
					UserID:       userID,
					Mood:         model.Mood(mood),
					DominantMood: model.Mood(dominant),
					Timestamp:    createdAt,
				},
			},
			createdAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("semantic retrieve: %w", err)
	}

	ranked := rank(cands, k)
	out := make([]adapter.SemanticEntry, 0, len(ranked))
	for _, c := range ranked {
		e := c.entry
		e.Score = c.score
		out = append(out, e)
	}
	return out, nil
}

type candidate struct {
	id        string
	score     float64
	entry     adapter.SemanticEntry
	createdAt time.Time
}

// rank orders by similarity, breaking ties on recency then id so that
// repeated queries over the same rows always return the same slice.
func rank(cands []candidate, k int) []candidate {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if !cands[i].createdAt.Equal(cands[j].createdAt) {
			return cands[i].createdAt.After(cands[j].createdAt)
		}
		return cands[i].id < cands[j].id
	})
	if len(cands) > k {
		cands = cands[:k]
	}
	return cands
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
