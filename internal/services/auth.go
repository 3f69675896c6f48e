package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"github.com/AnshRaj112/petverse-backend/internal/store"
	"github.com/AnshRaj112/petverse-backend/pkg/utils"
)

var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginResult is returned by a successful Authenticate.
type LoginResult struct {
	Token    string
	Username string
	UserID   string
}

type AuthService struct {
	users  store.UserStore
	tokens *TokenIssuer
}

func NewAuthService(users store.UserStore, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user with a bcrypt-hashed password. The email check
// runs first; the store's unique constraint catches concurrent signups.
func (s *AuthService) Register(ctx context.Context, username, mobile, email, password string) (models.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return models.User{}, ErrDuplicateEmail
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, models.User{
		Username:     username,
		Mobile:       mobile,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks the credentials and issues a bearer token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := utils.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Token: token, Username: u.Username, UserID: u.ID}, nil
}
