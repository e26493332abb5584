package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// RegisterInput carries the fields collected at sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Location string
}

type AuthService interface {
	// Register creates an account with a randomized initial rating and
	// returns a signed token alongside the new user.
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)

	// Login authenticates by email and password. Banned accounts are refused.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
