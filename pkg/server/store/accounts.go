package store

import (
	"context"
	"errors"
)

var (
	// ErrAccountNotFound is returned when an account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailTaken is returned when another account already has the email
	ErrEmailTaken = errors.New("account email already exists")
)

// RoleRef names a role held by an account
type RoleRef struct {
	ID   int64
	Name string
}

// Account represents an account with its roles ordered by role id
type Account struct {
	ID           int64
	Name         string
	Email        string
	PhoneNumber  *string
	Sex          string
	Avatar       *string
	Status       string
	Remark       *string
	PasswordHash string
	Roles        []RoleRef
}

// AccountFilter selects a page of accounts. Zero values do not filter.
type AccountFilter struct {
	Keyword string
	RoleID  int64
	Limit   int
	Offset  int
}

// NewAccount is the data needed to create an account
type NewAccount struct {
	Name         string
	Email        string
	PhoneNumber  string
	Sex          string
	Status       string
	Remark       string
	PasswordHash string
	Roles        []int64
}

// AccountUpdate replaces the editable fields and the roles of an account
type AccountUpdate struct {
	Name        string
	Email       string
	PhoneNumber string
	Sex         string
	Status      string
	Remark      string
	Roles       []int64
}

// ProfileUpdate is what an account may change about itself
type ProfileUpdate struct {
	Name string
	Sex  string
}

// AccountsStore abstracts account storage operations
type AccountsStore interface {
	// ListAccounts returns one page of matching accounts and the total
	// number of matches
	ListAccounts(ctx context.Context, f AccountFilter) ([]Account, int64, error)

	// CreateAccount creates an account and assigns its roles.
	// Returns ErrEmailTaken if the email is used.
	CreateAccount(ctx context.Context, a NewAccount) (*Account, error)

	// FindByEmail returns the account with the email, including its
	// password hash. Returns ErrAccountNotFound if there is none.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID returns the account with the id, including its password
	// hash. Returns ErrAccountNotFound if there is none.
	FindByID(ctx context.Context, id int64) (*Account, error)

	// UpdateAccount replaces an account's fields and roles in one
	// transaction. Returns ErrAccountNotFound or ErrEmailTaken.
	UpdateAccount(ctx context.Context, id int64, u AccountUpdate) (*Account, error)

	// UpdateProfile changes the name and sex of an account.
	// Returns ErrAccountNotFound if there is none.
	UpdateProfile(ctx context.Context, id int64, u ProfileUpdate) error

	// UpdatePassword replaces the password hash of an account.
	// Returns ErrAccountNotFound if there is none.
	UpdatePassword(ctx context.Context, id int64, hash string) error
}
