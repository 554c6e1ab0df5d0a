package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/user"
)

const (
	listUsersSQL = `SELECT id, email, name, role, created_at FROM users ORDER BY created_at`

	getUserSQL = `SELECT id, email, name, role, created_at FROM users WHERE id = $1`

	insertUserSQL = `INSERT INTO users (id, email, name, role) VALUES ($1, $2, $3, $4)`

	updateUserSQL = `UPDATE users SET email = $2, name = $3, role = $4 WHERE id = $1`

	deleteUserSQL = `DELETE FROM users WHERE id = $1`

	listAddressesSQL = `SELECT id, user_id, line1, line2, city, postal_code, country
		FROM addresses WHERE user_id = $1 ORDER BY id`

	insertAddressSQL = `INSERT INTO addresses (id, user_id, line1, line2, city, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// List returns all accounts, oldest first.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// GetByID returns a single account.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, getUserSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", id, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %q: %w", id, err)
	}
	return &u, nil
}

// Create inserts a new account. A duplicate email maps to ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL, u.ID, u.Email, u.Name, string(u.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("creating user %q: %w", u.ID, err)
	}
	return nil
}

// Update rewrites an account's profile fields.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	ct, err := r.pool.Exec(ctx, updateUserSQL, u.ID, u.Email, u.Name, string(u.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("updating user %q: %w", u.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// Delete removes an account along with its cart, addresses, and API keys.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, deleteUserSQL, id)
	if err != nil {
		return fmt.Errorf("deleting user %q: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// ListAddresses returns the user's address book.
func (r *UserRepository) ListAddresses(ctx context.Context, userID string) ([]user.Address, error) {
	rows, err := r.pool.Query(ctx, listAddressesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanAddress)
}

// CreateAddress inserts a new address book entry.
func (r *UserRepository) CreateAddress(ctx context.Context, a *user.Address) error {
	_, err := r.pool.Exec(ctx, insertAddressSQL,
		a.ID, a.UserID, a.Line1, a.Line2, a.City, a.PostalCode, a.Country,
	)
	if err != nil {
		return fmt.Errorf("creating address %q: %w", a.ID, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt)
	u.Role = user.Role(role)
	return u, err
}

func scanAddress(row pgx.CollectableRow) (user.Address, error) {
	var a user.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.PostalCode, &a.Country)
	return a, err
}
