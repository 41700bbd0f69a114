// Package store defines the persistence contracts the services are built
// against. Implementations must provide per-record atomicity for updates;
// ConsumeLinkToken in particular is a conditional update that may succeed
// for at most one of any number of concurrent callers.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/autotrackr/autotrackr/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserStore interface {
	// Create inserts a new user. Returns ErrDuplicate if the username is taken.
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// UpdateFields applies a merge patch to a single user record.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// ConsumeLinkToken atomically finds the user whose pending link token
	// equals token and has not expired, sets the chat id and clears the
	// token. Returns ErrNotFound if no such user exists (unknown, already
	// consumed, or expired token).
	ConsumeLinkToken(ctx context.Context, token, chatID string, now time.Time) (*models.User, error)
}

type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error)

	// FindByOwner returns the job only if it belongs to ownerID.
	FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*models.Job, error)

	// FindByID looks the job up regardless of owner. The deletion path
	// needs this to distinguish "absent" from "someone else's".
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)

	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Store interface {
	Users() UserStore
	Jobs() JobStore
	Ping(ctx context.Context) error
	Close() error
}
