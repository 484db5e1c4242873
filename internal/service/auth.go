package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"contentproof/internal/model"
	"contentproof/internal/repository"
)

var (
	ErrInvalidUserData    = errors.New("Invalid user data")
	ErrDuplicateUser      = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

const (
	MsgSignedUp = "Account created successfully"
	MsgSignedIn = "Sign in successful"
)

// TokenIssuer signs session tokens. Satisfied by *auth.Issuer.
type TokenIssuer interface {
	Issue(id, name, email string) (string, error)
}

// AuthResult is returned by both signup and signin.
type AuthResult struct {
	User    model.Profile
	Token   string
	Message string
}

// AuthService defines the account use cases.
type AuthService interface {
	// Signup registers a new account and signs the user in.
	Signup(ctx context.Context, name, email, password string) (*AuthResult, error)

	// Signin checks the password against the stored digest. It never writes to the store.
	Signin(ctx context.Context, email, password string) (*AuthResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
	// dummy is compared against when the email is unknown so both paths pay for bcrypt.
	dummy []byte
}

// NewAuthService constructs an AuthService. A cost outside bcrypt's range falls back to the default.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, cost int) (AuthService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	return &authService{users: users, tokens: tokens, cost: cost, dummy: dummy}, nil
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidUserData
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrInvalidUserData
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same address.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.result(user, MsgSignedUp)
}

func (s *authService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.result(user, MsgSignedIn)
}

func (s *authService) result(user *model.User, msg string) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user.Profile(), Token: token, Message: msg}, nil
}
