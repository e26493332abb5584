package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// CacheInvalidator drops cached browse candidate sets after a directory write.
// May be nil when no cache is wired.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// UserService covers profile reads and owner/admin mutations of the directory.
type UserService struct {
	users  ports.UserRepository
	cache  CacheInvalidator
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, cache CacheInvalidator, logger zerolog.Logger) *UserService {
	return &UserService{users: users, cache: cache, logger: logger}
}

// GetProfile returns a user's profile. Private profiles are visible only to
// their owner.
func (s *UserService) GetProfile(ctx context.Context, id, viewerID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsPublic && viewerID != id {
		return nil, domain.ErrProfilePrivate
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of patch to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.User, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len(name) < 2 {
			return nil, fmt.Errorf("%w: name must be at least 2 characters", domain.ErrValidation)
		}
		fields["name"] = name
	}
	if patch.Location != nil {
		fields["location"] = strings.TrimSpace(*patch.Location)
	}
	if patch.Availability != nil {
		fields["availability"] = *patch.Availability
	}
	if patch.IsPublic != nil {
		fields["is_public"] = *patch.IsPublic
	}
	if len(fields) == 0 {
		return s.users.FindByID(ctx, id)
	}

	user, err := s.users.UpdateProfile(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return user, nil
}

func (s *UserService) AddSkillOffered(ctx context.Context, id, skill string) ([]string, error) {
	return s.addSkill(ctx, id, skill, "skills_offered")
}

func (s *UserService) RemoveSkillOffered(ctx context.Context, id, skill string) ([]string, error) {
	return s.removeSkill(ctx, id, skill, "skills_offered")
}

func (s *UserService) AddSkillWanted(ctx context.Context, id, skill string) ([]string, error) {
	return s.addSkill(ctx, id, skill, "skills_wanted")
}

func (s *UserService) RemoveSkillWanted(ctx context.Context, id, skill string) ([]string, error) {
	return s.removeSkill(ctx, id, skill, "skills_wanted")
}

// addSkill appends to one of the two skill lists, rejecting case-insensitive
// duplicates. Insertion order is preserved for display.
func (s *UserService) addSkill(ctx context.Context, id, skill, field string) ([]string, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, fmt.Errorf("%w: skill is required", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list := user.SkillsOffered
	if field == "skills_wanted" {
		list = user.SkillsWanted
	}
	if domain.ContainsSkill(list, skill) {
		return nil, domain.ErrDuplicateSkill
	}

	list = append(list, skill)
	if err := s.users.ReplaceSkills(ctx, id, field, list); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return list, nil
}

func (s *UserService) removeSkill(ctx context.Context, id, skill, field string) ([]string, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list := user.SkillsOffered
	if field == "skills_wanted" {
		list = user.SkillsWanted
	}

	target := domain.NormalizeSkill(skill)
	kept := make([]string, 0, len(list))
	for _, entry := range list {
		if domain.NormalizeSkill(entry) != target {
			kept = append(kept, entry)
		}
	}

	if err := s.users.ReplaceSkills(ctx, id, field, kept); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return kept, nil
}

// SetSkillDescription attaches a free-text description to a skill the user
// currently offers. An absent key means no description.
func (s *UserService) SetSkillDescription(ctx context.Context, id, skill, description string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.OffersSkill(skill) {
		return domain.ErrSkillNotOffered
	}
	return s.users.SetSkillDescription(ctx, id, skill, strings.TrimSpace(description))
}

// ListSkillDescriptions returns every set description across the directory,
// used by admin moderation.
func (s *UserService) ListSkillDescriptions(ctx context.Context) ([]ports.SkillDescriptionEntry, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := []ports.SkillDescriptionEntry{}
	for _, u := range users {
		for _, skill := range u.SkillsOffered {
			if desc, ok := u.SkillDescriptions[skill]; ok && desc != "" {
				entries = append(entries, ports.SkillDescriptionEntry{
					UserID:      u.ID,
					UserName:    u.Name,
					Skill:       skill,
					Description: desc,
				})
			}
		}
	}
	return entries, nil
}

// RemoveSkillDescription deletes a user's skill description (admin moderation).
func (s *UserService) RemoveSkillDescription(ctx context.Context, userID, skill string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.RemoveSkillDescription(ctx, userID, skill)
}

// SetBanned flips a user's banned flag (admin only). Banned users drop out of
// browse eligibility immediately.
func (s *UserService) SetBanned(ctx context.Context, userID string, banned bool) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info().Str("user_id", userID).Bool("banned", banned).Msg("ban flag updated")
	return nil
}

func (s *UserService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("candidate cache invalidation failed")
	}
}
