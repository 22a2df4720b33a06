package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/everest-platform/console/pkg/cli/accounts"
)

const (
	flagUsername = "username"
	flagPassword = "password"
)

var accountsCmd = &cobra.Command{
	Use:     "accounts",
	Aliases: []string{"account"},
	Short:   "Manage Everest user accounts",
}

var accountsCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a new account",
	Long:    `Create a new account. Without --password a random password is generated and printed.`,
	Example: `everestctl accounts create --username alice`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := accountsCLI(cmd)
		if err != nil {
			return err
		}
		return c.Create(cmd.Context(), viper.GetString(flagUsername), viper.GetString(flagPassword))
	},
}

var accountsSetPasswordCmd = &cobra.Command{
	Use:     "set-password",
	Short:   "Set the password of an account",
	Long:    `Set the password of an account. Without --password a random password is generated and printed.`,
	Example: `everestctl accounts set-password --username admin`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := accountsCLI(cmd)
		if err != nil {
			return err
		}
		return c.SetPassword(cmd.Context(), viper.GetString(flagUsername), viper.GetString(flagPassword))
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := accountsCLI(cmd)
		if err != nil {
			return err
		}
		return c.List(cmd.Context())
	},
}

var accountsDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete an account",
	Example: `everestctl accounts delete --username alice`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := accountsCLI(cmd)
		if err != nil {
			return err
		}
		return c.Delete(cmd.Context(), viper.GetString(flagUsername))
	},
}

var accountsInitialAdminPasswordCmd = &cobra.Command{
	Use:   "initial-admin-password",
	Short: "Print the initial admin password",
	Long:  `Print the initial admin password. It is only available until the password is changed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := accountsCLI(cmd)
		if err != nil {
			return err
		}
		return c.InitialAdminPassword(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(
		accountsCreateCmd,
		accountsSetPasswordCmd,
		accountsListCmd,
		accountsDeleteCmd,
		accountsInitialAdminPasswordCmd,
	)

	for _, c := range []*cobra.Command{accountsCreateCmd, accountsSetPasswordCmd, accountsDeleteCmd} {
		c.Flags().StringP(flagUsername, "u", "", "Account user name")
		_ = c.MarkFlagRequired(flagUsername)
	}
	for _, c := range []*cobra.Command{accountsCreateCmd, accountsSetPasswordCmd} {
		c.Flags().StringP(flagPassword, "p", "", "Account password, generated when empty")
	}
}

func accountsCLI(cmd *cobra.Command) (*accounts.CLI, error) {
	k, err := newKubeClient()
	if err != nil {
		return nil, err
	}
	return accounts.New(k.Accounts(), cmd.OutOrStdout(), viper.GetBool(flagJSON)), nil
}
