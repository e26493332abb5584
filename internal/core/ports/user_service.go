package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// ProfilePatch carries the optional profile fields a user may update.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Name         *string
	Location     *string
	Availability *domain.Availability
	IsPublic     *bool
}

// SkillDescriptionEntry is one moderated per-skill description, used by the
// admin moderation listing.
type SkillDescriptionEntry struct {
	UserID      string
	UserName    string
	Skill       string
	Description string
}

// UserService covers profile reads and owner/admin mutations of the directory.
type UserService interface {
	// GetProfile returns a user's profile. Private profiles are visible only
	// to their owner (viewerID may be empty for anonymous callers).
	GetProfile(ctx context.Context, id, viewerID string) (*domain.User, error)

	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.User, error)

	AddSkillOffered(ctx context.Context, id, skill string) ([]string, error)
	RemoveSkillOffered(ctx context.Context, id, skill string) ([]string, error)
	AddSkillWanted(ctx context.Context, id, skill string) ([]string, error)
	RemoveSkillWanted(ctx context.Context, id, skill string) ([]string, error)

	// SetSkillDescription attaches a free-text description to an offered
	// skill. The user must currently offer the skill.
	SetSkillDescription(ctx context.Context, id, skill, description string) error

	// Admin moderation surface.
	ListSkillDescriptions(ctx context.Context) ([]SkillDescriptionEntry, error)
	RemoveSkillDescription(ctx context.Context, userID, skill string) error
	SetBanned(ctx context.Context, userID string, banned bool) error
}
