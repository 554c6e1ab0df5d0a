package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Role distinguishes storefront customers from back-office administrators.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Sentinel errors for account operations.
var (
	ErrNotFound        = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)

// User is a storefront account. Authentication itself happens upstream;
// this record only carries identity and role.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Address is one entry in a user's address book, referenced by orders.
type Address struct {
	ID         string
	UserID     string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

// Repository defines persistence operations for accounts and addresses.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error

	ListAddresses(ctx context.Context, userID string) ([]Address, error)
	CreateAddress(ctx context.Context, a *Address) error
}
