// Package accounts manages the console's user accounts.
package accounts

import (
	"context"
	"errors"
)

// AccountCapability is something an account is allowed to do.
type AccountCapability string

const (
	// AccountCapabilityLogin allows the account to start a session.
	AccountCapabilityLogin AccountCapability = "login"
	// AccountCapabilityAPIKey allows the account to use API keys.
	AccountCapabilityAPIKey AccountCapability = "apiKey"
)

var (
	// ErrAccountNotFound is returned when the account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists is returned when creating an existing account.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrAccountDisabled is returned when verifying a disabled account.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrInsufficientCapabilities is returned when the account lacks the login capability.
	ErrInsufficientCapabilities = errors.New("account does not have the required capabilities")
	// ErrIncorrectPassword is returned when the password does not match.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrEmptyUsername is returned for an empty user name.
	ErrEmptyUsername = errors.New("username cannot be empty")
	// ErrEmptyPassword is returned for an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// Account is a stored user account.
type Account struct {
	// PasswordHash is a bcrypt hash, or the plain password when Secure is false
	PasswordHash string              `json:"passwordHash"`
	Secure       bool                `json:"secure"`
	Enabled      bool                `json:"enabled"`
	Capabilities []AccountCapability `json:"capabilities"`
}

// HasCapability reports whether the account has the capability c.
func (a *Account) HasCapability(c AccountCapability) bool {
	for _, cp := range a.Capabilities {
		if cp == c {
			return true
		}
	}
	return false
}

// Interface is the account store used by the server and the CLI.
type Interface interface {
	// Create creates an enabled login account with a hashed password.
	Create(ctx context.Context, username, password string) error
	// Get returns an account.
	Get(ctx context.Context, username string) (*Account, error)
	// List returns all accounts keyed by user name.
	List(ctx context.Context) (map[string]*Account, error)
	// Delete removes an account.
	Delete(ctx context.Context, username string) error
	// SetPassword replaces the password. secure=false stores it in plain text.
	SetPassword(ctx context.Context, username, password string, secure bool) error
	// Verify checks the credentials of a login.
	Verify(ctx context.Context, username, password string) error
	// GetInitialAdminPassword returns the admin password while it is still plain text.
	GetInitialAdminPassword(ctx context.Context) (string, error)
}
