package repository

import (
	"context"
	"errors"

	"contentproof/internal/model"
)

var (
	// ErrNotFound is returned when no row or document matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key (user email) is already taken.
	ErrDuplicate = errors.New("already exists")
)

// UserRepository persists user accounts. Implementations live in postgres and mongo.
type UserRepository interface {
	// Create inserts a new user and returns the stored record with its ID.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByEmail returns the user registered under email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// VerificationRepository stores audit records. Records are never updated or deleted.
type VerificationRepository interface {
	Create(ctx context.Context, rec *model.VerificationRecord) (*model.VerificationRecord, error)

	// ListByUser returns a page of the user's records, newest first.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.VerificationRecord], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
