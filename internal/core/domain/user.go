package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DefaultDisplayRating is shown for users who have never been rated.
// The stored rating is left untouched until the first real rating arrives.
const DefaultDisplayRating = 3.5

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserBanned = errors.New("account has been banned")
var ErrProfilePrivate = errors.New("profile is private")
var ErrDuplicateSkill = errors.New("skill already exists")
var ErrSkillNotOffered = errors.New("skill is not offered by this user")

// Availability is the set of named time slots a user can teach in.
type Availability struct {
	Weekdays bool `json:"weekdays" bson:"weekdays"`
	Weekends bool `json:"weekends" bson:"weekends"`
	Evenings bool `json:"evenings" bson:"evenings"`
	Mornings bool `json:"mornings" bson:"mornings"`
}

// Slot reports whether the named slot is available. Unknown names are false.
func (a Availability) Slot(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "weekdays":
		return a.Weekdays
	case "weekends":
		return a.Weekends
	case "evenings":
		return a.Evenings
	case "mornings":
		return a.Mornings
	}
	return false
}

// MatchesAny reports whether at least one of the requested slots is available
// (OR semantics). An empty request matches everyone.
func (a Availability) MatchesAny(slots []string) bool {
	if len(slots) == 0 {
		return true
	}
	for _, s := range slots {
		if a.Slot(s) {
			return true
		}
	}
	return false
}

// User is a member of the skill-exchange directory.
type User struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email,omitempty" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Location     string `json:"location" bson:"location"`
	// SkillsOffered and SkillsWanted preserve insertion order for display;
	// membership checks are case-insensitive.
	SkillsOffered     []string          `json:"skills_offered" bson:"skills_offered"`
	SkillsWanted      []string          `json:"skills_wanted" bson:"skills_wanted"`
	SkillDescriptions map[string]string `json:"skill_descriptions,omitempty" bson:"skill_descriptions,omitempty"`
	Availability      Availability      `json:"availability" bson:"availability"`
	IsPublic          bool              `json:"is_public" bson:"is_public"`
	IsBanned          bool              `json:"is_banned" bson:"is_banned"`
	Role              string            `json:"role" bson:"role"`
	Rating            float64           `json:"rating" bson:"rating"`
	TotalRatings      int               `json:"total_ratings" bson:"total_ratings"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

// NormalizeSkill is the single normalization applied to every skill comparison:
// trim surrounding whitespace and lowercase.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsSkill reports whether the normalized term appears in the list
// (exact term match, not substring).
func ContainsSkill(skills []string, term string) bool {
	term = NormalizeSkill(term)
	for _, s := range skills {
		if NormalizeSkill(s) == term {
			return true
		}
	}
	return false
}

// SkillsIntersect reports whether the two lists share at least one skill
// under case-insensitive comparison.
func SkillsIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[NormalizeSkill(s)] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[NormalizeSkill(s)]; ok {
			return true
		}
	}
	return false
}

// OffersSkill reports whether the user can teach the given term.
func (u *User) OffersSkill(term string) bool {
	return ContainsSkill(u.SkillsOffered, term)
}

// WantsSkill reports whether the user wants to learn the given term.
func (u *User) WantsSkill(term string) bool {
	return ContainsSkill(u.SkillsWanted, term)
}

// DisplayRating returns the rating to present to other users: the stored
// running average once at least one rating exists, otherwise the fixed default.
func (u *User) DisplayRating() float64 {
	if u.TotalRatings == 0 {
		return DefaultDisplayRating
	}
	return u.Rating
}

// RecordRating folds a submitted 1–5 rating into the running average.
func (u *User) RecordRating(value int) {
	u.Rating = (u.Rating*float64(u.TotalRatings) + float64(value)) / float64(u.TotalRatings+1)
	u.TotalRatings++
}
