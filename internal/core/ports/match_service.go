package ports

import "context"

// BrowseInput carries all browse query parameters. ViewerID is empty for
// anonymous viewers.
type BrowseInput struct {
	ViewerID  string
	SkillTerm string   // optional; exact term match against skills offered
	Location  string   // optional; case-insensitive substring
	Slots     []string // optional availability slots, OR semantics
	ShowAll   bool
	Page      int // 1-based
	PageSize  int
}

// CandidateCard is the browse view of a user: public profile fields plus the
// display rating (the stored value, or the fixed default when unrated).
type CandidateCard struct {
	ID            string
	Name          string
	Location      string
	SkillsOffered []string
	SkillsWanted  []string
	Weekdays      bool
	Weekends      bool
	Evenings      bool
	Mornings      bool
	Rating        float64
}

// BrowseResult is a single page of candidates plus the size of the fully
// filtered set.
type BrowseResult struct {
	Users []CandidateCard
	Total int
}

// MatchService produces ranked, filtered, paginated candidate lists.
type MatchService interface {
	Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error)
}
