package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const testSecret = "test-secret"

func newAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, testSecret, time.Hour, RatingDefaults{InitialMin: 3.5, InitialMax: 4.2})
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "  Alice@Example.COM ",
		Password: "s3cret",
		Location: "Springfield",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("registration must issue a token")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email must be normalized, got %q", user.Email)
	}
	if !user.IsPublic || user.IsBanned {
		t.Error("new accounts start public and unbanned")
	}
	if user.Role != domain.RoleUser {
		t.Errorf("new accounts get the user role, got %q", user.Role)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestAuthService_Register_InitialRatingInRange(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	// The draw is random; sample a few registrations.
	for i := 0; i < 20; i++ {
		_, user, err := svc.Register(context.Background(), ports.RegisterInput{
			Name:     "Alice",
			Email:    string(rune('a'+i)) + "@example.com",
			Password: "pw",
		})
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if user.Rating < 3.5 || user.Rating > 4.2 {
			t.Fatalf("initial rating %v out of [3.5, 4.2]", user.Rating)
		}
		if user.TotalRatings != 0 {
			t.Fatal("new accounts have zero recorded ratings")
		}
		if user.DisplayRating() != domain.DefaultDisplayRating {
			t.Fatalf("unrated account displays the default, got %v", user.DisplayRating())
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	in := ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "pw"}
	if _, _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	in.Email = "ALICE@example.com"
	_, _, err := svc.Register(ctx, in)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestAuthService_Register_ShortName(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@b.c", Password: "pw"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(ctx, "Alice@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("unexpected user %q", user.Email)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token must verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != user.ID {
		t.Errorf("token user_id claim %v, want %s", claims["user_id"], user.ID)
	}
	if claims["role"] != domain.RoleUser {
		t.Errorf("token role claim %v, want %s", claims["role"], domain.RoleUser)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(ctx, "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestAuthService_Login_BannedAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	_, user, err := svc.Register(ctx, ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	repo.byID[user.ID].IsBanned = true

	_, _, err = svc.Login(ctx, "alice@example.com", "s3cret")
	if !errors.Is(err, domain.ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}
