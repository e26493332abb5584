package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// RatingDefaults bounds the randomized initial rating assigned at
// registration. Passed in from configuration, not read from globals.
type RatingDefaults struct {
	InitialMin float64
	InitialMax float64
}

// AuthService implements registration and login.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	rating    RatingDefaults
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, rating RatingDefaults) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	if rating.InitialMax < rating.InitialMin {
		rating.InitialMax = rating.InitialMin
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, rating: rating}
}

// Register creates a new account. New users start public, unbanned, with a
// randomized initial rating and zero recorded ratings.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if len(name) < 2 {
		return "", nil, fmt.Errorf("%w: name must be at least 2 characters", domain.ErrValidation)
	}
	if email == "" || in.Password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Location:     strings.TrimSpace(in.Location),
		IsPublic:     true,
		Role:         domain.RoleUser,
		Rating:       s.initialRating(),
		TotalRatings: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords are indistinguishable to the caller; banned accounts are refused
// outright.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.IsBanned {
		return "", nil, domain.ErrUserBanned
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// initialRating draws from [InitialMin, InitialMax], rounded to one decimal.
func (s *AuthService) initialRating() float64 {
	v := s.rating.InitialMin + rand.Float64()*(s.rating.InitialMax-s.rating.InitialMin)
	return math.Round(v*10) / 10
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
