// Package store owns the persistence contracts for users (including
// their issued tokens) and owner-scoped to-do items, plus the Mongo
// and in-memory implementations.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mchen1024/todovault/internal/models"
)

// MinPasswordLen is the minimum accepted plaintext password length.
const MinPasswordLen = 6

var (
	ErrInvalidEmail       = errors.New("store: invalid email address")
	ErrEmailTaken         = errors.New("store: email already registered")
	ErrPasswordTooShort   = errors.New("store: password must be at least 6 characters")
	ErrUserNotFound       = errors.New("store: user not found")
	ErrInvalidCredentials = errors.New("store: invalid credentials")
	ErrInvalidID          = errors.New("store: malformed id")
	ErrNotFound           = errors.New("store: not found")
)

// TodoUpdate carries the caller-updatable todo fields. Nil means
// "leave unchanged". Completion timestamps are derived by the store,
// never accepted from callers.
type TodoUpdate struct {
	Text      *string
	Completed *bool
}

// UserStore owns user records and their embedded token lists.
type UserStore interface {
	// Create validates email and password, hashes the password and
	// persists a new user.
	Create(ctx context.Context, email, password string) (*models.User, error)

	// Authenticate returns the user matching email iff password
	// verifies against its stored hash.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// IssueToken signs a fresh token for the user and atomically
	// appends it to the stored token list. Every call issues a new
	// token; concurrent sessions each hold their own.
	IssueToken(ctx context.Context, user *models.User) (string, error)

	// ResolveToken maps a bearer token to its user. It returns
	// (nil, nil) when the token does not verify or is no longer
	// present on the user record; decode failures are not propagated.
	ResolveToken(ctx context.Context, token string) (*models.User, error)

	// RevokeToken removes the token from the user's list. Removing an
	// absent token is not an error.
	RevokeToken(ctx context.Context, user *models.User, token string) error
}

// TodoStore owns to-do items. Every operation is filtered by ownerID;
// items belonging to other users behave as if they do not exist.
type TodoStore interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, text string, completed bool) (*models.Todo, error)
	List(ctx context.Context, ownerID primitive.ObjectID) ([]models.Todo, error)
	GetByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Todo, error)
	UpdateByID(ctx context.Context, ownerID primitive.ObjectID, id string, update TodoUpdate) (*models.Todo, error)
	DeleteByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Todo, error)
}

// parseID rejects malformed hex ids before any query is issued, so
// lookups with garbage ids read as plain not-found to callers.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
