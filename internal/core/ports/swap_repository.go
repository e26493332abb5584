package ports

import (
	"context"
	"time"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// SwapRepository defines persistence operations for swaps. Status transitions
// and rating-slot writes are conditional updates: they succeed only when the
// stored document still satisfies the expected precondition, so two racing
// requests cannot both apply the same transition.
type SwapRepository interface {
	Insert(ctx context.Context, swap *domain.Swap) error
	FindByID(ctx context.Context, id string) (*domain.Swap, error)

	// FindByParticipant returns all swaps where the user is requester or
	// recipient, newest first.
	FindByParticipant(ctx context.Context, userID string) ([]*domain.Swap, error)

	// UpdateStatus transitions the swap from expected to next in one
	// conditional write. completedAt is stamped when non-nil. Returns
	// domain.ErrConflict when the stored status no longer matches expected.
	UpdateStatus(ctx context.Context, id string, expected, next domain.SwapStatus, completedAt *time.Time) error

	// SetRating writes the role's rating slot, conditional on the swap being
	// completed and the slot still unset. Returns domain.ErrConflict when the
	// precondition fails, which callers translate into "already rated".
	SetRating(ctx context.Context, id string, role domain.SwapRole, rating *domain.SwapRating) error
}

// SwapEventRepository persists lifecycle transitions to the audit trail.
type SwapEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.SwapEvent) error
}
