package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/api/metrics"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// CandidateCache abstracts the browse candidate cache (Redis). A (nil, nil)
// return from Get is a miss. Cache failures never fail a browse query.
type CandidateCache interface {
	Get(ctx context.Context, excludeID string, filter ports.CandidateFilter) ([]*domain.User, error)
	Set(ctx context.Context, excludeID string, filter ports.CandidateFilter, users []*domain.User) error
}

// MatchService implements the browse query engine over the user directory.
type MatchService struct {
	users           ports.UserRepository
	cache           CandidateCache // optional
	defaultPageSize int
	logger          zerolog.Logger
}

// NewMatchService builds a MatchService. defaultPageSize applies when the
// caller omits a page size; cache may be nil.
func NewMatchService(users ports.UserRepository, cache CandidateCache, defaultPageSize int, logger zerolog.Logger) *MatchService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &MatchService{users: users, cache: cache, defaultPageSize: defaultPageSize, logger: logger}
}

// Browse produces a ranked, filtered page of candidates plus the total size of
// the filtered set. Selection branches are mutually exclusive:
//
//	anonymous          term?        → teachers of the term, else everyone
//	authenticated      term+showAll → teachers of the term
//	authenticated      term only    → teachers of the term who want a viewer skill
//	authenticated      showAll only → everyone eligible
//	authenticated      neither      → users who want a viewer skill
func (s *MatchService) Browse(ctx context.Context, in ports.BrowseInput) (*ports.BrowseResult, error) {
	term := domain.NormalizeSkill(in.SkillTerm)

	var viewer *domain.User
	if in.ViewerID != "" {
		var err error
		viewer, err = s.users.FindByID(ctx, in.ViewerID)
		if err != nil {
			return nil, fmt.Errorf("browse: %w", err)
		}
	}

	filter := ports.CandidateFilter{Location: in.Location, Slots: in.Slots}
	candidates, err := s.loadCandidates(ctx, in.ViewerID, filter)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	var selected []*domain.User
	var branch string
	switch {
	case viewer == nil:
		branch = "anonymous"
		if term != "" {
			selected = keep(candidates, func(u *domain.User) bool { return u.OffersSkill(term) })
		} else {
			selected = candidates
		}
	case term != "" && in.ShowAll:
		branch = "teachers"
		selected = keep(candidates, func(u *domain.User) bool { return u.OffersSkill(term) })
	case term != "":
		branch = "mutual_term"
		selected = keep(candidates, func(u *domain.User) bool {
			return u.OffersSkill(term) && domain.SkillsIntersect(u.SkillsWanted, viewer.SkillsOffered)
		})
	case in.ShowAll:
		branch = "all"
		selected = candidates
	default:
		branch = "mutual"
		selected = keep(candidates, func(u *domain.User) bool {
			return domain.SkillsIntersect(u.SkillsWanted, viewer.SkillsOffered)
		})
	}

	// Stable ordering by stored rating: ties keep directory order so repeated
	// queries over unchanged data return identical pages.
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Rating > selected[j].Rating })

	total := len(selected)
	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	cards := make([]ports.CandidateCard, 0, end-start)
	for _, u := range selected[start:end] {
		cards = append(cards, toCandidateCard(u))
	}

	metrics.BrowseQueriesTotal.WithLabelValues(branch).Inc()
	s.logger.Debug().
		Str("branch", branch).
		Str("term", term).
		Int("total", total).
		Int("page", page).
		Msg("browse query")

	return &ports.BrowseResult{Users: cards, Total: total}, nil
}

// loadCandidates serves the eligible candidate set from cache when possible,
// falling back to the directory on miss or cache failure.
func (s *MatchService) loadCandidates(ctx context.Context, excludeID string, filter ports.CandidateFilter) ([]*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, excludeID, filter)
		if err != nil {
			s.logger.Warn().Err(err).Msg("candidate cache read failed, querying directory")
		} else if cached != nil {
			return cached, nil
		}
	}

	users, err := s.users.FindPublicCandidates(ctx, excludeID, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, excludeID, filter, users); err != nil {
			s.logger.Warn().Err(err).Msg("candidate cache write failed")
		}
	}
	return users, nil
}

func keep(users []*domain.User, pred func(*domain.User) bool) []*domain.User {
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if pred(u) {
			out = append(out, u)
		}
	}
	return out
}

func toCandidateCard(u *domain.User) ports.CandidateCard {
	return ports.CandidateCard{
		ID:            u.ID,
		Name:          u.Name,
		Location:      u.Location,
		SkillsOffered: u.SkillsOffered,
		SkillsWanted:  u.SkillsWanted,
		Weekdays:      u.Availability.Weekdays,
		Weekends:      u.Availability.Weekends,
		Evenings:      u.Availability.Evenings,
		Mornings:      u.Availability.Mornings,
		Rating:        u.DisplayRating(),
	}
}
