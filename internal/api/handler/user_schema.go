package handler

import (
	"time"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Location string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  userResponse `json:"user"`
}

// --- Profile ---

type availabilitySchema struct {
	Weekdays bool `json:"weekdays"`
	Weekends bool `json:"weekends"`
	Evenings bool `json:"evenings"`
	Mornings bool `json:"mornings"`
}

// userResponse is the profile view. Email is only populated for the owner's
// own record; Rating carries the display rating, never the raw stored value
// of an unrated user.
type userResponse struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email,omitempty"`
	Location          string             `json:"location"`
	SkillsOffered     []string           `json:"skills_offered"`
	SkillsWanted      []string           `json:"skills_wanted"`
	SkillDescriptions map[string]string  `json:"skill_descriptions,omitempty"`
	Availability      availabilitySchema `json:"availability"`
	IsPublic          bool               `json:"is_public"`
	Role              string             `json:"role"`
	Rating            float64            `json:"rating"`
	TotalRatings      int                `json:"total_ratings"`
	CreatedAt         time.Time          `json:"created_at"`
}

func toUserResponse(u *domain.User, includeEmail bool) userResponse {
	resp := userResponse{
		ID:                u.ID,
		Name:              u.Name,
		Location:          u.Location,
		SkillsOffered:     u.SkillsOffered,
		SkillsWanted:      u.SkillsWanted,
		SkillDescriptions: u.SkillDescriptions,
		Availability: availabilitySchema{
			Weekdays: u.Availability.Weekdays,
			Weekends: u.Availability.Weekends,
			Evenings: u.Availability.Evenings,
			Mornings: u.Availability.Mornings,
		},
		IsPublic:     u.IsPublic,
		Role:         u.Role,
		Rating:       u.DisplayRating(),
		TotalRatings: u.TotalRatings,
		CreatedAt:    u.CreatedAt,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

type updateProfileRequest struct {
	Name         *string             `json:"name"     validate:"omitempty,min=2"`
	Location     *string             `json:"location"`
	Availability *availabilitySchema `json:"availability"`
	IsPublic     *bool               `json:"is_public"`
}

type skillRequest struct {
	Skill string `json:"skill" validate:"required"`
}

type skillListResponse struct {
	Skills []string `json:"skills"`
}

type descriptionRequest struct {
	Description string `json:"description" validate:"required"`
}

type banRequest struct {
	Banned *bool `json:"banned" validate:"required"`
}

type skillDescriptionResponse struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Skill       string `json:"skill"`
	Description string `json:"description"`
}

// --- Browse ---

type candidateResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Location      string             `json:"location"`
	SkillsOffered []string           `json:"skills_offered"`
	SkillsWanted  []string           `json:"skills_wanted"`
	Availability  availabilitySchema `json:"availability"`
	Rating        float64            `json:"rating"`
}

func toCandidateResponse(card ports.CandidateCard) candidateResponse {
	return candidateResponse{
		ID:            card.ID,
		Name:          card.Name,
		Location:      card.Location,
		SkillsOffered: card.SkillsOffered,
		SkillsWanted:  card.SkillsWanted,
		Availability: availabilitySchema{
			Weekdays: card.Weekdays,
			Weekends: card.Weekends,
			Evenings: card.Evenings,
			Mornings: card.Mornings,
		},
		Rating: card.Rating,
	}
}

// browseResponse matches the contract { "users": [...], "total": N }.
type browseResponse struct {
	Users []candidateResponse `json:"users"`
	Total int                 `json:"total"`
}
