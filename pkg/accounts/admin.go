package accounts

import (
	"context"
	"errors"

	"github.com/sethvargo/go-password/password"
)

const (
	generatedPasswordLength = 32
	generatedPasswordDigits = 8
)

// GeneratePassword returns a random password of letters and digits.
func GeneratePassword() (string, error) {
	return password.Generate(generatedPasswordLength, generatedPasswordDigits, 0, false, true)
}

// CreateInitialAdminAccount creates the admin account if it is missing and
// resets its password to a random plain text value that the user can read
// once with GetInitialAdminPassword.
func CreateInitialAdminAccount(ctx context.Context, c Interface) error {
	pass, err := GeneratePassword()
	if err != nil {
		return errors.Join(err, errors.New("could not generate random password"))
	}
	if _, err := c.Get(ctx, adminUser); errors.Is(err, ErrAccountNotFound) {
		if err := c.Create(ctx, adminUser, pass); err != nil {
			return errors.Join(err, errors.New("could not create admin account"))
		}
	} else if err != nil {
		return err
	}
	return c.SetPassword(ctx, adminUser, pass, false)
}
