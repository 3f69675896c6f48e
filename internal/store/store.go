// Package store holds the persistence collaborators: a credential store for
// users and a record store for pet reports, with Mongo, Postgres and
// in-memory implementations.
package store

import (
	"context"
	"errors"

	"github.com/AnshRaj112/petverse-backend/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserStore interface {
	// Create stores u and returns it with its assigned ID. It returns
	// ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, u models.User) (models.User, error)
	// FindByEmail returns ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

type PetStore interface {
	// Create assigns ID and CreatedAt and stores the record.
	Create(ctx context.Context, rec models.PetRecord) (models.PetRecord, error)
	// FindOne returns the oldest record matching f, or ErrNotFound.
	FindOne(ctx context.Context, f models.PetFilter) (models.PetRecord, error)
	// Find returns every record matching f, oldest first.
	Find(ctx context.Context, f models.PetFilter) ([]models.PetRecord, error)
	// DeleteByID removes the record if it is still present and reports
	// whether anything was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}
