package services

import (
	"context"
	"errors"
	"fmt"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"
	"aifinder/internal/repos"
	"aifinder/internal/validate"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users *repos.UserRepo
	Cost  int // bcrypt cost; bcrypt.DefaultCost when zero

	dummyHash []byte
}

func NewAuthService(users *repos.UserRepo, cost int) (*AuthService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown so both failure paths
	// cost one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("aifinder-no-such-user"), cost)
	if err != nil {
		return nil, fmt.Errorf("build dummy hash: %w", err)
	}
	return &AuthService{Users: users, Cost: cost, dummyHash: dummy}, nil
}

// Register creates a user with a bcrypt hash of password. A taken email is
// DuplicateEmail.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (int64, error) {
	email, ok := validate.Email(email)
	if !ok {
		return 0, apperror.InvalidInput("email", "enter a valid email address")
	}
	username, ok = validate.Username(username)
	if !ok {
		return 0, apperror.InvalidInput("username", "username must be 1 to 50 characters")
	}
	if !validate.Password(password) {
		return 0, apperror.InvalidInput("password", "password must be 8 to 72 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return 0, apperror.Store("hash password", err)
	}
	return s.Users.Create(ctx, email, username, string(hash))
}

// Login returns the user whose email and password match. Unknown email and
// wrong password produce the same InvalidCredentials error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email, ok := validate.Email(email)
	if !ok || password == "" {
		return nil, apperror.InvalidCredentials()
	}

	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperror.InvalidCredentials()
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, apperror.InvalidCredentials()
	}
	return u, nil
}

func (s *AuthService) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}
