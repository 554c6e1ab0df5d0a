// Package auth holds the API-key identity model. Keys are stored and looked
// up only as HMAC-SHA256 hashes; the plaintext key never touches the
// database.
package auth

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/user"
)

// ErrKeyNotFound is returned when no active key matches a presented hash.
var ErrKeyNotFound = errors.New("api key not found")

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID string
	Role   user.Role
}

// APIKey maps a hashed key to the identity it authenticates.
type APIKey struct {
	ID      string
	KeyHash string
	UserID  string
	Role    user.Role
	Name    string
}

// Repository provides lookup of API keys by their HMAC-SHA256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKey, error)
	Create(ctx context.Context, k *APIKey) error
}
