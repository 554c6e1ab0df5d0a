package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/auth"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/user"
)

const (
	getAPIKeyByHashSQL = `SELECT k.id, k.key_hash, k.user_id, u.role, k.name
		FROM api_keys k
		JOIN users u ON u.id = k.user_id
		WHERE k.key_hash = $1 AND k.active`

	insertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, user_id, name)
		VALUES ($1, $2, $3, $4)`
)

var _ auth.Repository = (*APIKeyRepository)(nil)

// APIKeyRepository provides API key lookups backed by PostgreSQL.
type APIKeyRepository struct {
	pool *pgxpool.Pool
}

// NewAPIKeyRepository returns an APIKeyRepository that uses the given pool.
func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{pool: pool}
}

// FindByHash looks up an active API key by its HMAC-SHA256 hash, joined with
// the owning account's role.
func (r *APIKeyRepository) FindByHash(ctx context.Context, hash string) (*auth.APIKey, error) {
	var (
		k    auth.APIKey
		role string
	)
	err := r.pool.QueryRow(ctx, getAPIKeyByHashSQL, hash).Scan(
		&k.ID, &k.KeyHash, &k.UserID, &role, &k.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrKeyNotFound
		}
		return nil, fmt.Errorf("finding api key by hash: %w", err)
	}
	k.Role = user.Role(role)
	return &k, nil
}

// Create inserts a new API key record.
func (r *APIKeyRepository) Create(ctx context.Context, k *auth.APIKey) error {
	_, err := r.pool.Exec(ctx, insertAPIKeySQL, k.ID, k.KeyHash, k.UserID, k.Name)
	if err != nil {
		return fmt.Errorf("creating api key %q: %w", k.ID, err)
	}
	return nil
}
