package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   []*domain.User // insertion order preserved
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	findErr error // if set, lookups return this error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
	for _, u := range users {
		_ = r.Create(context.Background(), u)
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, ok := r.byEmail[u.Email]; ok && u.Email != "" {
		return domain.ErrUserExists
	}
	clone := *u
	r.users = append(r.users, &clone)
	r.byID[u.ID] = &clone
	if u.Email != "" {
		r.byEmail[u.Email] = &clone
	}
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// FindPublicCandidates applies the same filters and ordering the real Mongo
// query would use.
func (r *stubUserRepo) FindPublicCandidates(_ context.Context, excludeID string, f ports.CandidateFilter) ([]*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var matched []*domain.User
	for _, u := range r.users {
		if !u.IsPublic || u.IsBanned || u.ID == excludeID {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(u.Location), strings.ToLower(f.Location)) {
			continue
		}
		if !u.Availability.MatchesAny(f.Slots) {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	return matched, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, patch map[string]any) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for field, value := range patch {
		switch field {
		case "name":
			u.Name = value.(string)
		case "location":
			u.Location = value.(string)
		case "availability":
			u.Availability = value.(domain.Availability)
		case "is_public":
			u.IsPublic = value.(bool)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ReplaceSkills(_ context.Context, id, field string, skills []string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if field == "skills_wanted" {
		u.SkillsWanted = skills
	} else {
		u.SkillsOffered = skills
	}
	return nil
}

func (r *stubUserRepo) SetSkillDescription(_ context.Context, id, skill, description string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.SkillDescriptions == nil {
		u.SkillDescriptions = make(map[string]string)
	}
	u.SkillDescriptions[skill] = description
	return nil
}

func (r *stubUserRepo) RemoveSkillDescription(_ context.Context, id, skill string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(u.SkillDescriptions, skill)
	return nil
}

func (r *stubUserRepo) ApplyRating(_ context.Context, id string, value int) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RecordRating(value)
	return nil
}

func (r *stubUserRepo) SetBanned(_ context.Context, id string, banned bool) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsBanned = banned
	return nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func member(id, name string, offered, wanted []string) *domain.User {
	return &domain.User{
		ID:            id,
		Name:          name,
		Email:         id + "@example.com",
		SkillsOffered: offered,
		SkillsWanted:  wanted,
		IsPublic:      true,
		Rating:        4.0,
		TotalRatings:  1,
	}
}

func browseIDs(t *testing.T, svc *MatchService, in ports.BrowseInput) []string {
	t.Helper()
	result, err := svc.Browse(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected browse error: %v", err)
	}
	ids := make([]string, 0, len(result.Users))
	for _, c := range result.Users {
		ids = append(ids, c.ID)
	}
	return ids
}

// ---------------------------------------------------------------------------
// Branch selection tests
// ---------------------------------------------------------------------------

func TestMatchService_Browse_AnonymousWithTerm(t *testing.T) {
	repo := newStubUserRepo(
		member("u1", "Ana", []string{"Guitar"}, nil),
		member("u2", "Ben", []string{"Piano"}, nil),
		member("u3", "Cleo", []string{"guitar", "Chess"}, nil),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{SkillTerm: "Guitar"})

	if len(ids) != 2 {
		t.Fatalf("expected 2 teachers of guitar, got %v", ids)
	}
	for _, id := range ids {
		if id == "u2" {
			t.Error("piano teacher must not appear for a guitar search")
		}
	}
}

func TestMatchService_Browse_AnonymousWithoutTerm(t *testing.T) {
	repo := newStubUserRepo(
		member("u1", "Ana", []string{"Guitar"}, nil),
		member("u2", "Ben", []string{"Piano"}, nil),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{})
	if len(ids) != 2 {
		t.Fatalf("anonymous browse without a term returns everyone eligible, got %v", ids)
	}
}

func TestMatchService_Browse_TermWithShowAll(t *testing.T) {
	viewer := member("me", "Me", []string{"Cooking"}, nil)
	repo := newStubUserRepo(
		viewer,
		member("u1", "Ana", []string{"Guitar"}, []string{"Cooking"}),
		member("u2", "Ben", []string{"Guitar"}, []string{"Chess"}),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	// show_all disables the reciprocal-interest filter.
	ids := browseIDs(t, svc, ports.BrowseInput{ViewerID: "me", SkillTerm: "guitar", ShowAll: true})
	if len(ids) != 2 {
		t.Fatalf("expected both guitar teachers, got %v", ids)
	}
}

func TestMatchService_Browse_TermRequiresReciprocalInterest(t *testing.T) {
	viewer := member("me", "Me", []string{"Cooking"}, nil)
	repo := newStubUserRepo(
		viewer,
		member("u1", "Ana", []string{"Guitar"}, []string{"cooking"}),
		member("u2", "Ben", []string{"Guitar"}, []string{"Chess"}),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{ViewerID: "me", SkillTerm: "guitar"})

	if len(ids) != 1 || ids[0] != "u1" {
		t.Fatalf("only the teacher who wants a viewer skill qualifies, got %v", ids)
	}
}

func TestMatchService_Browse_ShowAllWithoutTerm(t *testing.T) {
	viewer := member("me", "Me", nil, nil)
	repo := newStubUserRepo(
		viewer,
		member("u1", "Ana", []string{"Guitar"}, nil),
		member("u2", "Ben", nil, nil),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{ViewerID: "me", ShowAll: true})
	if len(ids) != 2 {
		t.Fatalf("show_all returns everyone except the viewer, got %v", ids)
	}
	for _, id := range ids {
		if id == "me" {
			t.Error("viewer must be excluded from their own browse results")
		}
	}
}

func TestMatchService_Browse_DefaultMutualInterest(t *testing.T) {
	viewer := member("me", "Me", []string{"Cooking"}, nil)
	repo := newStubUserRepo(
		viewer,
		member("u1", "Ana", []string{"Guitar"}, []string{"Cooking"}),
		member("u2", "Ben", []string{"Piano"}, []string{"Chess"}),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{ViewerID: "me"})

	if len(ids) != 1 || ids[0] != "u1" {
		t.Fatalf("default authenticated browse keeps users who want a viewer skill, got %v", ids)
	}
}

func TestMatchService_Browse_ViewerWithNoOfferedSkills(t *testing.T) {
	viewer := member("me", "Me", nil, nil)
	repo := newStubUserRepo(
		viewer,
		member("u1", "Ana", []string{"Guitar"}, []string{"Cooking"}),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{ViewerID: "me"})
	if len(ids) != 0 {
		t.Fatalf("viewer offering nothing can satisfy nobody's wants, got %v", ids)
	}
}

func TestMatchService_Browse_BlankTermIsNoTerm(t *testing.T) {
	viewer := member("me", "Me", []string{"Cooking"}, nil)
	repo := newStubUserRepo(
		viewer,
		member("u1", "Ana", []string{"Guitar"}, []string{"Cooking"}),
		member("u2", "Ben", []string{"Piano"}, []string{"Chess"}),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	withBlank := browseIDs(t, svc, ports.BrowseInput{ViewerID: "me", SkillTerm: "   "})
	without := browseIDs(t, svc, ports.BrowseInput{ViewerID: "me"})

	if len(withBlank) != len(without) {
		t.Fatalf("whitespace-only term must behave like no term: %v vs %v", withBlank, without)
	}
}

// ---------------------------------------------------------------------------
// Eligibility, ordering, pagination
// ---------------------------------------------------------------------------

func TestMatchService_Browse_ExcludesPrivateAndBanned(t *testing.T) {
	private := member("u1", "Ana", []string{"Guitar"}, nil)
	private.IsPublic = false
	banned := member("u2", "Ben", []string{"Guitar"}, nil)
	banned.IsBanned = true
	repo := newStubUserRepo(private, banned, member("u3", "Cleo", []string{"Guitar"}, nil))
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{SkillTerm: "guitar"})
	if len(ids) != 1 || ids[0] != "u3" {
		t.Fatalf("private and banned users must never surface, got %v", ids)
	}
}

func TestMatchService_Browse_OrdersByStoredRatingDesc(t *testing.T) {
	low := member("u1", "Ana", []string{"Guitar"}, nil)
	low.Rating = 3.0
	high := member("u2", "Ben", []string{"Guitar"}, nil)
	high.Rating = 4.8
	mid := member("u3", "Cleo", []string{"Guitar"}, nil)
	mid.Rating = 4.0
	repo := newStubUserRepo(low, high, mid)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{SkillTerm: "guitar"})
	want := []string{"u2", "u3", "u1"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, ids)
		}
	}
}

func TestMatchService_Browse_UnratedUsersShowDefaultButSortByStored(t *testing.T) {
	unrated := member("u1", "Ana", []string{"Guitar"}, nil)
	unrated.Rating = 4.0
	unrated.TotalRatings = 0
	repo := newStubUserRepo(unrated)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	result, err := svc.Browse(context.Background(), ports.BrowseInput{SkillTerm: "guitar"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Users[0].Rating != domain.DefaultDisplayRating {
		t.Errorf("unrated user displays %v, got %v", domain.DefaultDisplayRating, result.Users[0].Rating)
	}
}

func TestMatchService_Browse_Pagination(t *testing.T) {
	users := make([]*domain.User, 0, 5)
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		users = append(users, member(id, id, []string{"Guitar"}, nil))
	}
	repo := newStubUserRepo(users...)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	collected := make([]string, 0, 5)
	for page := 1; page <= 3; page++ {
		result, err := svc.Browse(context.Background(), ports.BrowseInput{SkillTerm: "guitar", Page: page, PageSize: 2})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if result.Total != 5 {
			t.Fatalf("total must reflect the filtered set, got %d", result.Total)
		}
		for _, c := range result.Users {
			collected = append(collected, c.ID)
		}
	}

	if len(collected) != 5 {
		t.Fatalf("pages must concatenate to the full result set, got %v", collected)
	}
	seen := map[string]bool{}
	for _, id := range collected {
		if seen[id] {
			t.Fatalf("duplicate %s across pages", id)
		}
		seen[id] = true
	}
}

func TestMatchService_Browse_PageBeyondEnd(t *testing.T) {
	repo := newStubUserRepo(member("u1", "Ana", []string{"Guitar"}, nil))
	svc := NewMatchService(repo, nil, 10, discardLogger)

	result, err := svc.Browse(context.Background(), ports.BrowseInput{SkillTerm: "guitar", Page: 9, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Users) != 0 || result.Total != 1 {
		t.Errorf("out-of-range page is empty but keeps the true total, got %d users total=%d", len(result.Users), result.Total)
	}
}

func TestMatchService_Browse_LocationAndAvailabilityFilter(t *testing.T) {
	inTown := member("u1", "Ana", []string{"Guitar"}, nil)
	inTown.Location = "Springfield, USA"
	inTown.Availability = domain.Availability{Weekends: true}
	elsewhere := member("u2", "Ben", []string{"Guitar"}, nil)
	elsewhere.Location = "Shelbyville"
	elsewhere.Availability = domain.Availability{Weekends: true}
	busy := member("u3", "Cleo", []string{"Guitar"}, nil)
	busy.Location = "springfield"
	busy.Availability = domain.Availability{Weekdays: true}
	repo := newStubUserRepo(inTown, elsewhere, busy)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{
		SkillTerm: "guitar",
		Location:  "springfield",
		Slots:     []string{"weekends"},
	})
	if len(ids) != 1 || ids[0] != "u1" {
		t.Fatalf("location substring and slot OR filters must both apply, got %v", ids)
	}
}

func TestMatchService_Browse_RepeatedQueryIsIdentical(t *testing.T) {
	repo := newStubUserRepo(
		member("u1", "Ana", []string{"Guitar"}, nil),
		member("u2", "Ben", []string{"Guitar"}, nil),
		member("u3", "Cleo", []string{"Guitar"}, nil),
	)
	svc := NewMatchService(repo, nil, 10, discardLogger)

	first := browseIDs(t, svc, ports.BrowseInput{SkillTerm: "guitar"})
	second := browseIDs(t, svc, ports.BrowseInput{SkillTerm: "guitar"})

	if len(first) != len(second) {
		t.Fatal("repeated query over unchanged data changed size")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated query over unchanged data reordered: %v vs %v", first, second)
		}
	}
}

func TestMatchService_Browse_UnknownViewer(t *testing.T) {
	repo := newStubUserRepo(member("u1", "Ana", []string{"Guitar"}, nil))
	svc := NewMatchService(repo, nil, 10, discardLogger)

	_, err := svc.Browse(context.Background(), ports.BrowseInput{ViewerID: "ghost"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Cache behaviour
// ---------------------------------------------------------------------------

type stubCache struct {
	stored   map[string][]*domain.User
	getErr   error
	getCalls int
	setCalls int
}

func newStubCache() *stubCache {
	return &stubCache{stored: make(map[string][]*domain.User)}
}

func (c *stubCache) key(excludeID string, f ports.CandidateFilter) string {
	return excludeID + "|" + f.Location + "|" + strings.Join(f.Slots, ",")
}

func (c *stubCache) Get(_ context.Context, excludeID string, f ports.CandidateFilter) ([]*domain.User, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.stored[c.key(excludeID, f)], nil
}

func (c *stubCache) Set(_ context.Context, excludeID string, f ports.CandidateFilter, users []*domain.User) error {
	c.setCalls++
	c.stored[c.key(excludeID, f)] = users
	return nil
}

func TestMatchService_Browse_PopulatesAndServesCache(t *testing.T) {
	repo := newStubUserRepo(member("u1", "Ana", []string{"Guitar"}, nil))
	cache := newStubCache()
	svc := NewMatchService(repo, cache, 10, discardLogger)

	browseIDs(t, svc, ports.BrowseInput{SkillTerm: "guitar"})
	if cache.setCalls != 1 {
		t.Fatalf("first browse should populate the cache, set calls = %d", cache.setCalls)
	}

	ids := browseIDs(t, svc, ports.BrowseInput{SkillTerm: "guitar"})
	if cache.setCalls != 1 {
		t.Errorf("cache hit must not rewrite the cache, set calls = %d", cache.setCalls)
	}
	if len(ids) != 1 {
		t.Errorf("cached result differs from direct result: %v", ids)
	}
}

func TestMatchService_Browse_CacheFailureFallsBack(t *testing.T) {
	repo := newStubUserRepo(member("u1", "Ana", []string{"Guitar"}, nil))
	cache := newStubCache()
	cache.getErr = errors.New("connection refused")
	svc := NewMatchService(repo, cache, 10, discardLogger)

	ids := browseIDs(t, svc, ports.BrowseInput{SkillTerm: "guitar"})
	if len(ids) != 1 {
		t.Fatalf("cache failure must not fail the browse, got %v", ids)
	}
}
