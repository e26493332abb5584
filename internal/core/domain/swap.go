package domain

import (
	"errors"
	"time"
)

// SwapStatus represents the lifecycle state of a swap request.
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Statuses absent from the map (rejected, cancelled, completed) are terminal.
var validTransitions = map[SwapStatus][]SwapStatus{
	SwapPending:  {SwapAccepted, SwapRejected, SwapCancelled},
	SwapAccepted: {SwapCompleted},
}

var ErrSwapNotFound = errors.New("swap not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrNotParticipant = errors.New("actor is not part of this swap")
var ErrWrongActor = errors.New("actor not permitted for this transition")
var ErrAlreadyRated = errors.New("rating already submitted for this role")
var ErrValidation = errors.New("validation failed")
var ErrConflict = errors.New("conflicting concurrent update")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s SwapStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// SwapRole identifies which side of a swap an actor is on.
type SwapRole string

const (
	RoleRequester SwapRole = "requester"
	RoleRecipient SwapRole = "recipient"
)

// Other returns the counterpart role.
func (r SwapRole) Other() SwapRole {
	if r == RoleRequester {
		return RoleRecipient
	}
	return RoleRequester
}

// SwapRating is the per-role rating slot, settable at most once.
type SwapRating struct {
	Rating  int       `json:"rating" bson:"rating"`
	Comment string    `json:"comment,omitempty" bson:"comment,omitempty"`
	Date    time.Time `json:"date" bson:"date"`
}

// Swap is a proposed or in-progress skill exchange between two users.
type Swap struct {
	ID              string      `json:"id" bson:"_id,omitempty"`
	RequesterID     string      `json:"requester_id" bson:"requester_id"`
	RecipientID     string      `json:"recipient_id" bson:"recipient_id"`
	SkillOffered    string      `json:"skill_offered" bson:"skill_offered"`
	SkillRequested  string      `json:"skill_requested" bson:"skill_requested"`
	Status          SwapStatus  `json:"status" bson:"status"`
	Message         string      `json:"message,omitempty" bson:"message,omitempty"`
	RequesterRating *SwapRating `json:"requester_rating,omitempty" bson:"requester_rating,omitempty"`
	RecipientRating *SwapRating `json:"recipient_rating,omitempty" bson:"recipient_rating,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

// ParticipantRole derives the actor's role from identity. All lifecycle
// operations go through this helper instead of repeating equality checks.
func (s *Swap) ParticipantRole(actorID string) (SwapRole, bool) {
	switch actorID {
	case s.RequesterID:
		return RoleRequester, true
	case s.RecipientID:
		return RoleRecipient, true
	}
	return "", false
}

// RatingFor returns the rating slot for the given role.
func (s *Swap) RatingFor(role SwapRole) *SwapRating {
	if role == RoleRequester {
		return s.RequesterRating
	}
	return s.RecipientRating
}

// CounterpartID returns the user id of the other party relative to role.
func (s *Swap) CounterpartID(role SwapRole) string {
	if role == RoleRequester {
		return s.RecipientID
	}
	return s.RequesterID
}

// SwapEvent records a single lifecycle transition for the audit trail.
type SwapEvent struct {
	SwapID    string
	Status    SwapStatus
	ActorID   string
	Role      SwapRole
	Timestamp time.Time
}
