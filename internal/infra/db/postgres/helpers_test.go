package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/domain/ports/repository"
)

func TestExecutorForRejectsUnknownHandle(t *testing.T) {
	if _, err := executorFor(&pgxpool.Pool{}, repository.Tx(struct{}{})); !errors.Is(err, domain.ErrInvalidExecContext) {
		t.Fatalf("want ErrInvalidExecContext, got %v", err)
	}
}

func TestExecutorForNoTXFallsBackToPool(t *testing.T) {
	pool := &pgxpool.Pool{}
	ex, err := executorFor(pool, repository.NoTX)
	if err != nil {
		t.Fatal(err)
	}
	if ex != executor(pool) {
		t.Fatal("expected the pool itself")
	}
}

func TestExecutorForNoTXWithoutPool(t *testing.T) {
	if _, err := executorFor(nil, repository.NoTX); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}
