package service

import (
	"context"
	"errors"
	"testing"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

func newUserFixture() (*UserService, *stubUserRepo) {
	repo := newStubUserRepo(member("alice", "Alice", []string{"Guitar"}, []string{"Cooking"}))
	return NewUserService(repo, nil, discardLogger), repo
}

func TestUserService_GetProfile_PrivateOnlyToOwner(t *testing.T) {
	svc, repo := newUserFixture()
	repo.byID["alice"].IsPublic = false
	ctx := context.Background()

	if _, err := svc.GetProfile(ctx, "alice", "alice"); err != nil {
		t.Fatalf("owner must see their private profile: %v", err)
	}

	_, err := svc.GetProfile(ctx, "alice", "bob")
	if !errors.Is(err, domain.ErrProfilePrivate) {
		t.Fatalf("expected ErrProfilePrivate for other viewers, got %v", err)
	}

	_, err = svc.GetProfile(ctx, "alice", "")
	if !errors.Is(err, domain.ErrProfilePrivate) {
		t.Fatalf("expected ErrProfilePrivate for anonymous viewers, got %v", err)
	}
}

func TestUserService_UpdateProfile_PartialPatch(t *testing.T) {
	svc, repo := newUserFixture()
	loc := "  Springfield "
	pub := false

	user, err := svc.UpdateProfile(context.Background(), "alice", ports.ProfilePatch{Location: &loc, IsPublic: &pub})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Location != "Springfield" {
		t.Errorf("location must be trimmed, got %q", user.Location)
	}
	if user.IsPublic {
		t.Error("is_public patch not applied")
	}
	if repo.byID["alice"].Name != "Alice" {
		t.Error("unpatched fields must stay untouched")
	}
}

func TestUserService_UpdateProfile_ShortName(t *testing.T) {
	svc, _ := newUserFixture()
	name := "A"

	_, err := svc.UpdateProfile(context.Background(), "alice", ports.ProfilePatch{Name: &name})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_UpdateProfile_EmptyPatchIsRead(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.UpdateProfile(context.Background(), "alice", ports.ProfilePatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("empty patch returns the current profile, got %q", user.Name)
	}
}

func TestUserService_AddSkill_PreservesOrderAndRejectsDuplicates(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	skills, err := svc.AddSkillOffered(ctx, "alice", "Chess")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(skills) != 2 || skills[0] != "Guitar" || skills[1] != "Chess" {
		t.Fatalf("insertion order must be preserved, got %v", skills)
	}

	_, err = svc.AddSkillOffered(ctx, "alice", " GUITAR ")
	if !errors.Is(err, domain.ErrDuplicateSkill) {
		t.Fatalf("case-insensitive duplicate: expected ErrDuplicateSkill, got %v", err)
	}
}

func TestUserService_AddSkill_BlankRejected(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.AddSkillWanted(context.Background(), "alice", "   ")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_RemoveSkill_CaseInsensitive(t *testing.T) {
	svc, repo := newUserFixture()

	skills, err := svc.RemoveSkillOffered(context.Background(), "alice", "guitar")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(skills) != 0 {
		t.Fatalf("expected empty list, got %v", skills)
	}
	if len(repo.byID["alice"].SkillsOffered) != 0 {
		t.Error("removal must be persisted")
	}
}

func TestUserService_RemoveSkill_AbsentIsNoop(t *testing.T) {
	svc, _ := newUserFixture()

	skills, err := svc.RemoveSkillWanted(context.Background(), "alice", "Juggling")
	if err != nil {
		t.Fatalf("removing an absent skill must not fail: %v", err)
	}
	if len(skills) != 1 || skills[0] != "Cooking" {
		t.Errorf("list must be unchanged, got %v", skills)
	}
}

func TestUserService_SetSkillDescription_RequiresOfferedSkill(t *testing.T) {
	svc, repo := newUserFixture()
	ctx := context.Background()

	if err := svc.SetSkillDescription(ctx, "alice", "Guitar", "15 years of fingerstyle"); err != nil {
		t.Fatalf("describe offered skill: %v", err)
	}
	if repo.byID["alice"].SkillDescriptions["Guitar"] != "15 years of fingerstyle" {
		t.Error("description must be persisted")
	}

	err := svc.SetSkillDescription(ctx, "alice", "Cooking", "secret recipes")
	if !errors.Is(err, domain.ErrSkillNotOffered) {
		t.Fatalf("describing a skill only wanted: expected ErrSkillNotOffered, got %v", err)
	}
}

func TestUserService_ListSkillDescriptions(t *testing.T) {
	repo := newStubUserRepo(
		member("alice", "Alice", []string{"Guitar"}, nil),
		member("bob", "Bob", []string{"Cooking"}, nil),
	)
	svc := NewUserService(repo, nil, discardLogger)
	ctx := context.Background()

	if err := svc.SetSkillDescription(ctx, "alice", "Guitar", "fingerstyle"); err != nil {
		t.Fatalf("set: %v", err)
	}

	entries, err := svc.ListSkillDescriptions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.UserID != "alice" || e.Skill != "Guitar" || e.Description != "fingerstyle" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestUserService_RemoveSkillDescription(t *testing.T) {
	svc, repo := newUserFixture()
	ctx := context.Background()

	if err := svc.SetSkillDescription(ctx, "alice", "Guitar", "fingerstyle"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.RemoveSkillDescription(ctx, "alice", "Guitar"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := repo.byID["alice"].SkillDescriptions["Guitar"]; ok {
		t.Error("description must be gone")
	}

	if err := svc.RemoveSkillDescription(ctx, "ghost", "Guitar"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_SetBanned(t *testing.T) {
	svc, repo := newUserFixture()
	ctx := context.Background()

	if err := svc.SetBanned(ctx, "alice", true); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !repo.byID["alice"].IsBanned {
		t.Error("ban flag must be persisted")
	}

	if err := svc.SetBanned(ctx, "alice", false); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if repo.byID["alice"].IsBanned {
		t.Error("unban must clear the flag")
	}

	if err := svc.SetBanned(ctx, "ghost", true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestUserService_DirectoryWritesInvalidateCache(t *testing.T) {
	repo := newStubUserRepo(member("alice", "Alice", []string{"Guitar"}, nil))
	inv := &countingInvalidator{}
	svc := NewUserService(repo, inv, discardLogger)
	ctx := context.Background()

	if _, err := svc.AddSkillOffered(ctx, "alice", "Chess"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.SetBanned(ctx, "alice", true); err != nil {
		t.Fatalf("ban: %v", err)
	}

	if inv.calls != 2 {
		t.Errorf("each directory write invalidates the browse cache, got %d calls", inv.calls)
	}
}
