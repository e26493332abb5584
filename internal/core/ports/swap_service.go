package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// CreateSwapInput carries all data needed to propose a new swap.
type CreateSwapInput struct {
	RequesterID    string
	RecipientID    string
	SkillOffered   string // what the requester will teach
	SkillRequested string // what the requester wants to learn
	Message        string
}

// RateSwapInput carries one party's rating of the exchange. The actor's role
// slot is derived from identity, and the counterpart's aggregate is updated.
type RateSwapInput struct {
	SwapID  string
	ActorID string
	Rating  int // 1–5
	Comment string
}

// SwapService owns the swap lifecycle state machine.
type SwapService interface {
	Create(ctx context.Context, input CreateSwapInput) (*domain.Swap, error)
	Accept(ctx context.Context, swapID, actorID string) (*domain.Swap, error)
	Reject(ctx context.Context, swapID, actorID string) (*domain.Swap, error)
	Cancel(ctx context.Context, swapID, actorID string) (*domain.Swap, error)
	Complete(ctx context.Context, swapID, actorID string) (*domain.Swap, error)
	Rate(ctx context.Context, input RateSwapInput) (*domain.Swap, error)

	// ListForUser returns every swap the user participates in, newest first.
	ListForUser(ctx context.Context, userID string) ([]*domain.Swap, error)
}
