package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rohits-web03/zipdrop/internal/auth"
	"github.com/rohits-web03/zipdrop/internal/models"
	"github.com/rohits-web03/zipdrop/internal/repositories"
)

const MaxUsernameLength = 45

var checkPassword = auth.CheckPasswordHash

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserService is the credential store: registration, lookup and password checks.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	user := &models.User{Username: username, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Verify returns the user when password matches. Unknown users and wrong
// passwords are indistinguishable to the caller, in result and in timing.
func (s *UserService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			checkPassword(password, auth.DummyHash())
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if !checkPassword(password, user.Password) {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

func validateCredentials(username, password string) error {
	switch {
	case strings.TrimSpace(username) == "" || password == "":
		return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		return fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, MaxUsernameLength)
	}
	return nil
}
