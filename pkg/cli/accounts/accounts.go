// Package accounts implements the everestctl accounts commands.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/everest-platform/console/pkg/accounts"
	"github.com/everest-platform/console/pkg/cli/printer"
	"github.com/everest-platform/console/pkg/common"
)

// ErrDeleteAdmin is returned when deleting the built-in admin account.
var ErrDeleteAdmin = errors.New("the admin account cannot be deleted")

// CLI runs the accounts commands against an account store.
type CLI struct {
	store accounts.Interface
	out   io.Writer
	json  bool
}

// New returns a CLI that writes to out, as JSON when asJSON is set.
func New(store accounts.Interface, out io.Writer, asJSON bool) *CLI {
	return &CLI{store: store, out: out, json: asJSON}
}

// Create creates an account. An empty password is generated and printed.
func (c *CLI) Create(ctx context.Context, username, password string) error {
	generated := password == ""
	if generated {
		var err error
		if password, err = accounts.GeneratePassword(); err != nil {
			return err
		}
	}
	if err := c.store.Create(ctx, username, password); err != nil {
		return err
	}
	if generated {
		return c.printPassword(username, password)
	}
	return nil
}

// SetPassword replaces the password of an account with a hashed one. An
// empty password is generated and printed.
func (c *CLI) SetPassword(ctx context.Context, username, password string) error {
	generated := password == ""
	if generated {
		var err error
		if password, err = accounts.GeneratePassword(); err != nil {
			return err
		}
	}
	if err := c.store.SetPassword(ctx, username, password, true); err != nil {
		return err
	}
	if generated {
		return c.printPassword(username, password)
	}
	return nil
}

// Delete removes an account other than admin.
func (c *CLI) Delete(ctx context.Context, username string) error {
	if username == common.EverestAdminUser {
		return ErrDeleteAdmin
	}
	return c.store.Delete(ctx, username)
}

type accountRow struct {
	Username     string   `json:"username"`
	Enabled      bool     `json:"enabled"`
	Capabilities []string `json:"capabilities"`
}

// List prints every account sorted by user name.
func (c *CLI) List(ctx context.Context) error {
	all, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	rows := make([]accountRow, 0, len(all))
	for name, acc := range all {
		caps := make([]string, 0, len(acc.Capabilities))
		for _, cp := range acc.Capabilities {
			caps = append(caps, string(cp))
		}
		rows = append(rows, accountRow{Username: name, Enabled: acc.Enabled, Capabilities: caps})
	}
	slices.SortFunc(rows, func(a, b accountRow) int { return strings.Compare(a.Username, b.Username) })

	if c.json {
		return printer.PrintJSON(c.out, rows)
	}
	tbl := printer.NewTablePrinter(c.out)
	tbl.SetHeader("USER", "ENABLED", "CAPABILITIES")
	for _, r := range rows {
		tbl.AddRow(r.Username, r.Enabled, strings.Join(r.Capabilities, ","))
	}
	tbl.Print()
	return nil
}

// InitialAdminPassword prints the admin password while it is still stored
// in plain text.
func (c *CLI) InitialAdminPassword(ctx context.Context) error {
	pass, err := c.store.GetInitialAdminPassword(ctx)
	if err != nil {
		if errors.Is(err, accounts.ErrInitialPasswordChanged) {
			return fmt.Errorf("%w. Use 'everestctl accounts set-password' to reset it", err)
		}
		return err
	}
	return c.printPassword(common.EverestAdminUser, pass)
}

func (c *CLI) printPassword(username, password string) error {
	if c.json {
		return printer.PrintJSON(c.out, map[string]string{"username": username, "password": password})
	}
	_, err := fmt.Fprintln(c.out, password)
	return err
}
