package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/api/metrics"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// AuditSink receives lifecycle events for asynchronous persistence to the
// audit trail. May be nil, in which case events are dropped.
type AuditSink interface {
	Record(event domain.SwapEvent)
}

// SwapService implements the swap lifecycle state machine. Every operation is
// a single guarded transition over one swap record; transitions are persisted
// with conditional updates so concurrent attempts cannot both succeed.
type SwapService struct {
	swaps  ports.SwapRepository
	users  ports.UserRepository
	audit  AuditSink
	logger zerolog.Logger
}

func NewSwapService(swaps ports.SwapRepository, users ports.UserRepository, audit AuditSink, logger zerolog.Logger) *SwapService {
	return &SwapService{swaps: swaps, users: users, audit: audit, logger: logger}
}

// Create proposes a new swap in status pending. Multiple pending swaps between
// the same pair are permitted.
func (s *SwapService) Create(ctx context.Context, in ports.CreateSwapInput) (*domain.Swap, error) {
	skillOffered := strings.TrimSpace(in.SkillOffered)
	skillRequested := strings.TrimSpace(in.SkillRequested)

	if in.RequesterID == in.RecipientID {
		return nil, fmt.Errorf("%w: cannot request a swap with yourself", domain.ErrValidation)
	}
	if skillOffered == "" || skillRequested == "" {
		return nil, fmt.Errorf("%w: both skills are required", domain.ErrValidation)
	}

	if _, err := s.users.FindByID(ctx, in.RecipientID); err != nil {
		return nil, fmt.Errorf("create swap: %w", err)
	}

	now := time.Now().UTC()
	swap := &domain.Swap{
		ID:             uuid.NewString(),
		RequesterID:    in.RequesterID,
		RecipientID:    in.RecipientID,
		SkillOffered:   skillOffered,
		SkillRequested: skillRequested,
		Status:         domain.SwapPending,
		Message:        strings.TrimSpace(in.Message),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.swaps.Insert(ctx, swap); err != nil {
		s.logger.Error().Err(err).Msg("failed to create swap")
		return nil, err
	}

	metrics.SwapsCreatedTotal.Inc()
	s.record(swap.ID, domain.SwapPending, in.RequesterID, domain.RoleRequester, now)
	s.logger.Info().
		Str("swap_id", swap.ID).
		Str("requester_id", in.RequesterID).
		Str("recipient_id", in.RecipientID).
		Msg("swap created")

	return swap, nil
}

// Accept transitions pending → accepted. Only the recipient may accept.
func (s *SwapService) Accept(ctx context.Context, swapID, actorID string) (*domain.Swap, error) {
	return s.transition(ctx, swapID, actorID, domain.RoleRecipient, domain.SwapAccepted, "accept")
}

// Reject transitions pending → rejected. Only the recipient may reject.
func (s *SwapService) Reject(ctx context.Context, swapID, actorID string) (*domain.Swap, error) {
	return s.transition(ctx, swapID, actorID, domain.RoleRecipient, domain.SwapRejected, "reject")
}

// Cancel transitions pending → cancelled. Only the requester may cancel; the
// record is retained, not removed.
func (s *SwapService) Cancel(ctx context.Context, swapID, actorID string) (*domain.Swap, error) {
	return s.transition(ctx, swapID, actorID, domain.RoleRequester, domain.SwapCancelled, "cancel")
}

// Complete transitions accepted → completed and stamps completedAt. Either
// party may mark completion unilaterally.
func (s *SwapService) Complete(ctx context.Context, swapID, actorID string) (*domain.Swap, error) {
	return s.transition(ctx, swapID, actorID, "", domain.SwapCompleted, "complete")
}

// transition performs one guarded state-machine step. requiredRole empty means
// any participant may act. Wrong actor and wrong state are reported as
// distinct error kinds.
func (s *SwapService) transition(ctx context.Context, swapID, actorID string, requiredRole domain.SwapRole, next domain.SwapStatus, verb string) (*domain.Swap, error) {
	swap, err := s.swaps.FindByID(ctx, swapID)
	if err != nil {
		return nil, fmt.Errorf("%s swap: %w", verb, err)
	}

	role, ok := swap.ParticipantRole(actorID)
	if !ok {
		return nil, fmt.Errorf("%w: not your swap", domain.ErrWrongActor)
	}
	if requiredRole != "" && role != requiredRole {
		return nil, fmt.Errorf("%w: only the %s may %s", domain.ErrWrongActor, requiredRole, verb)
	}
	if !swap.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot %s a %s swap", domain.ErrInvalidTransition, verb, swap.Status)
	}

	var completedAt *time.Time
	now := time.Now().UTC()
	if next == domain.SwapCompleted {
		completedAt = &now
	}

	if err := s.swaps.UpdateStatus(ctx, swapID, swap.Status, next, completedAt); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent request won the transition.
			return nil, fmt.Errorf("%w: swap already decided", domain.ErrInvalidTransition)
		}
		s.logger.Error().Err(err).Str("swap_id", swapID).Msg("status update failed")
		return nil, err
	}

	swap.Status = next
	swap.CompletedAt = completedAt
	swap.UpdatedAt = now

	metrics.SwapTransitionsTotal.WithLabelValues(verb).Inc()
	s.record(swapID, next, actorID, role, now)
	s.logger.Info().
		Str("swap_id", swapID).
		Str("actor_id", actorID).
		Str("status", string(next)).
		Msg("swap transitioned")

	return swap, nil
}

// Rate records the actor's rating of a completed exchange into their role
// slot (at most once) and folds the value into the counterpart's aggregate.
// The slot claim is a single conditional write, so a racing double submission
// applies the aggregate update at most once.
func (s *SwapService) Rate(ctx context.Context, in ports.RateSwapInput) (*domain.Swap, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}

	swap, err := s.swaps.FindByID(ctx, in.SwapID)
	if err != nil {
		return nil, fmt.Errorf("rate swap: %w", err)
	}

	role, ok := swap.ParticipantRole(in.ActorID)
	if !ok {
		return nil, fmt.Errorf("%w: not your swap", domain.ErrWrongActor)
	}
	if swap.Status != domain.SwapCompleted {
		return nil, fmt.Errorf("%w: only completed swaps can be rated", domain.ErrInvalidTransition)
	}
	if swap.RatingFor(role) != nil {
		return nil, domain.ErrAlreadyRated
	}

	rating := &domain.SwapRating{
		Rating:  in.Rating,
		Comment: strings.TrimSpace(in.Comment),
		Date:    time.Now().UTC(),
	}

	if err := s.swaps.SetRating(ctx, swap.ID, role, rating); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrAlreadyRated
		}
		s.logger.Error().Err(err).Str("swap_id", swap.ID).Msg("rating write failed")
		return nil, err
	}

	// The slot is claimed; the counterpart's running average follows.
	counterpartID := swap.CounterpartID(role)
	if err := s.users.ApplyRating(ctx, counterpartID, in.Rating); err != nil {
		s.logger.Error().Err(err).
			Str("swap_id", swap.ID).
			Str("user_id", counterpartID).
			Msg("aggregate rating update failed")
		return nil, err
	}

	if role == domain.RoleRequester {
		swap.RequesterRating = rating
	} else {
		swap.RecipientRating = rating
	}

	metrics.RatingsSubmittedTotal.Inc()
	s.record(swap.ID, swap.Status, in.ActorID, role, rating.Date)
	s.logger.Info().
		Str("swap_id", swap.ID).
		Str("rated_user_id", counterpartID).
		Int("rating", in.Rating).
		Msg("rating submitted")

	return swap, nil
}

// ListForUser returns every swap where the user is requester or recipient.
func (s *SwapService) ListForUser(ctx context.Context, userID string) ([]*domain.Swap, error) {
	return s.swaps.FindByParticipant(ctx, userID)
}

func (s *SwapService) record(swapID string, status domain.SwapStatus, actorID string, role domain.SwapRole, ts time.Time) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.SwapEvent{
		SwapID:    swapID,
		Status:    status,
		ActorID:   actorID,
		Role:      role,
		Timestamp: ts,
	})
}
