package handler

import (
	"time"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

type createSwapRequest struct {
	RecipientID    string `json:"recipient_id"    validate:"required"`
	SkillOffered   string `json:"skill_offered"   validate:"required"`
	SkillRequested string `json:"skill_requested" validate:"required"`
	Message        string `json:"message"`
}

type rateSwapRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

type swapRatingResponse struct {
	Rating  int       `json:"rating"`
	Comment string    `json:"comment,omitempty"`
	Date    time.Time `json:"date"`
}

type swapResponse struct {
	ID              string              `json:"id"`
	RequesterID     string              `json:"requester_id"`
	RecipientID     string              `json:"recipient_id"`
	SkillOffered    string              `json:"skill_offered"`
	SkillRequested  string              `json:"skill_requested"`
	Status          string              `json:"status"`
	Message         string              `json:"message,omitempty"`
	RequesterRating *swapRatingResponse `json:"requester_rating,omitempty"`
	RecipientRating *swapRatingResponse `json:"recipient_rating,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toSwapResponse(s *domain.Swap) swapResponse {
	return swapResponse{
		ID:              s.ID,
		RequesterID:     s.RequesterID,
		RecipientID:     s.RecipientID,
		SkillOffered:    s.SkillOffered,
		SkillRequested:  s.SkillRequested,
		Status:          string(s.Status),
		Message:         s.Message,
		RequesterRating: toRatingResponse(s.RequesterRating),
		RecipientRating: toRatingResponse(s.RecipientRating),
		CompletedAt:     s.CompletedAt,
		CreatedAt:       s.CreatedAt,
	}
}

func toRatingResponse(r *domain.SwapRating) *swapRatingResponse {
	if r == nil {
		return nil
	}
	return &swapRatingResponse{Rating: r.Rating, Comment: r.Comment, Date: r.Date}
}

type listSwapsResponse struct {
	Swaps []swapResponse `json:"swaps"`
}
