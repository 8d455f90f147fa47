// File: internal/usecase/profile_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/repository"
)

// Compile-time check
var _ ProfileUseCase = (*profileUC)(nil)

// ProfileUseCase serves the mood profile readback.
type ProfileUseCase interface {
	// DominantMood returns the stored dominant mood, or neutral when the
	// user has no turns yet.
	DominantMood(ctx context.Context, userID string) (*model.MoodProfile, error)
}

type profileUC struct {
	profiles repository.MoodProfileRepository
	log      *zerolog.Logger
}

func NewProfileUseCase(profiles repository.MoodProfileRepository, logger *zerolog.Logger) *profileUC {
	return &profileUC{profiles: profiles, log: logger}
}

func (p *profileUC) DominantMood(ctx context.Context, userID string) (*model.MoodProfile, error) {
	prof, err := p.profiles.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.NewMoodProfile(userID), nil
		}
		return nil, err
	}
	return prof, nil
}
