package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// CandidateFilter is the persistence-layer pre-filter for browse: the parts of
// the query the document store can evaluate before branch selection happens in
// the match engine. All fields are optional intersections.
type CandidateFilter struct {
	Location string   // case-insensitive substring on location
	Slots    []string // availability slot names, OR semantics
}

// UserRepository defines persistence operations for the user directory.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindPublicCandidates returns every eligible browse candidate
	// (public, not banned, not excludeID) matching the pre-filter, ordered
	// by stored rating descending with a deterministic tie order.
	FindPublicCandidates(ctx context.Context, excludeID string, filter CandidateFilter) ([]*domain.User, error)

	// UpdateProfile applies the given field patch and returns the updated user.
	UpdateProfile(ctx context.Context, id string, patch map[string]any) (*domain.User, error)

	// ReplaceSkills overwrites one of the two skill lists ("skills_offered"
	// or "skills_wanted") wholesale.
	ReplaceSkills(ctx context.Context, id string, field string, skills []string) error

	SetSkillDescription(ctx context.Context, id string, skill, description string) error
	RemoveSkillDescription(ctx context.Context, id string, skill string) error

	// ApplyRating folds a submitted 1–5 value into the user's running
	// average and increments total_ratings in a single atomic store update.
	ApplyRating(ctx context.Context, id string, value int) error

	SetBanned(ctx context.Context, id string, banned bool) error
	FindAll(ctx context.Context) ([]*domain.User, error)
}
