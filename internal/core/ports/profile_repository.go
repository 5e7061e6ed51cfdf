package ports

import (
	"context"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// ProfileMutator edits a loaded profile in place inside an atomic update.
type ProfileMutator func(p *domain.Profile) error

// ProfileRepository persists profiles. Email uniqueness is enforced by the
// store; a conflicting write returns domain.ErrEmailTaken.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	FindByID(ctx context.Context, id int64) (*domain.Profile, error)
	// Update loads the profile, applies mutate and saves it as one atomic
	// step. It returns the saved profile.
	Update(ctx context.Context, id int64, mutate ProfileMutator) (*domain.Profile, error)
	Delete(ctx context.Context, id int64) (*domain.Profile, error)
	// List returns one page ordered by id and the total number of profiles.
	List(ctx context.Context, page domain.PageRequest) ([]*domain.Profile, int64, error)
	// All returns every profile ordered by id.
	All(ctx context.Context) ([]*domain.Profile, error)
}
