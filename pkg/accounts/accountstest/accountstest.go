// Package accountstest provides a contract test suite for accounts.Interface
// implementations.
package accountstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everest-platform/console/pkg/accounts"
)

// Run exercises c against the behaviour every account store must have.
// c must start empty.
func Run(t *testing.T, c accounts.Interface) {
	t.Helper()
	ctx := context.Background()

	t.Run("create and verify", func(t *testing.T) {
		require.NoError(t, c.Create(ctx, "alice", "s3cret"))
		assert.ErrorIs(t, c.Create(ctx, "alice", "other"), accounts.ErrAccountAlreadyExists)

		assert.NoError(t, c.Verify(ctx, "alice", "s3cret"))
		assert.ErrorIs(t, c.Verify(ctx, "alice", "wrong"), accounts.ErrIncorrectPassword)
		assert.ErrorIs(t, c.Verify(ctx, "nobody", "s3cret"), accounts.ErrAccountNotFound)

		acc, err := c.Get(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, acc.Enabled)
		assert.True(t, acc.Secure)
		assert.NotEqual(t, "s3cret", acc.PasswordHash)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.ErrorIs(t, c.Create(ctx, "", "x"), accounts.ErrEmptyUsername)
		assert.ErrorIs(t, c.Create(ctx, "bob", ""), accounts.ErrEmptyPassword)
	})

	t.Run("set password", func(t *testing.T) {
		require.NoError(t, c.SetPassword(ctx, "alice", "n3w", true))
		assert.ErrorIs(t, c.Verify(ctx, "alice", "s3cret"), accounts.ErrIncorrectPassword)
		assert.NoError(t, c.Verify(ctx, "alice", "n3w"))
		assert.ErrorIs(t, c.SetPassword(ctx, "nobody", "x", true), accounts.ErrAccountNotFound)
	})

	t.Run("initial admin", func(t *testing.T) {
		_, err := c.GetInitialAdminPassword(ctx)
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)

		require.NoError(t, accounts.CreateInitialAdminAccount(ctx, c))
		pass, err := c.GetInitialAdminPassword(ctx)
		require.NoError(t, err)
		assert.Len(t, pass, 32)
		assert.NoError(t, c.Verify(ctx, "admin", pass))

		require.NoError(t, c.SetPassword(ctx, "admin", "changed", true))
		_, err = c.GetInitialAdminPassword(ctx)
		assert.ErrorIs(t, err, accounts.ErrInitialPasswordChanged)
	})

	t.Run("list and delete", func(t *testing.T) {
		all, err := c.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Contains(t, all, "alice")
		assert.Contains(t, all, "admin")

		require.NoError(t, c.Delete(ctx, "alice"))
		assert.ErrorIs(t, c.Delete(ctx, "alice"), accounts.ErrAccountNotFound)
		_, err = c.Get(ctx, "alice")
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	})
}
