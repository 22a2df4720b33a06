package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/everest-platform/console/pkg/cli/namespaces"
)

//nolint:gochecknoglobals
var takeOwnershipHint = fmt.Sprintf("HINT: set '--%s' flag to use existing namespaces", namespaces.FlagTakeOwnership)

var namespacesCmd = &cobra.Command{
	Use:     "namespaces",
	Aliases: []string{"namespace", "ns"},
	Short:   "Manage the database namespaces",
	Long:    `Add, update and remove the namespaces Everest runs database clusters in.`,
}

var namespacesAddCmd = &cobra.Command{
	Use:     "add <namespace>",
	Short:   "Add a new namespace",
	Example: `everestctl namespaces add dev --operator.postgresql=false`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, c, err := namespacesSetup(cmd, args[0])
		if err != nil {
			return err
		}
		if err := m.Add(cmd.Context(), c); err != nil {
			if errors.Is(err, namespaces.ErrNamespaceAlreadyExists) {
				return fmt.Errorf("%w. %s", err, takeOwnershipHint)
			}
			return err
		}
		return nil
	},
}

var namespacesUpdateCmd = &cobra.Command{
	Use:     "update <namespace>",
	Short:   "Install more database operators in a namespace",
	Example: `everestctl namespaces update dev --operator.postgresql`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, c, err := namespacesSetup(cmd, args[0])
		if err != nil {
			return err
		}
		return m.Update(cmd.Context(), c)
	},
}

var namespacesRemoveCmd = &cobra.Command{
	Use:     "remove <namespace>",
	Short:   "Remove a namespace",
	Example: `everestctl namespaces remove dev --force`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, c, err := namespacesSetup(cmd, args[0])
		if err != nil {
			return err
		}
		return m.Remove(cmd.Context(), c)
	},
}

func init() {
	rootCmd.AddCommand(namespacesCmd)
	namespacesCmd.AddCommand(namespacesAddCmd, namespacesUpdateCmd, namespacesRemoveCmd)

	for _, c := range []*cobra.Command{namespacesAddCmd, namespacesUpdateCmd} {
		c.Flags().Bool(namespaces.FlagOperatorMongoDB, true, "Install MongoDB operator")
		c.Flags().Bool(namespaces.FlagOperatorPostgresql, true, "Install PostgreSQL operator")
		c.Flags().Bool(namespaces.FlagOperatorXtraDBCluster, true, "Install XtraDB Cluster operator")
	}
	namespacesAddCmd.Flags().Bool(namespaces.FlagTakeOwnership, false, "If the specified namespace already exists, take ownership of it")
	namespacesRemoveCmd.Flags().Bool(namespaces.FlagKeepNamespace, false, "Keep the namespace and only remove it from Everest")
	namespacesRemoveCmd.Flags().Bool(namespaces.FlagForce, false, "Delete the database clusters of the namespace")
}

func namespacesSetup(cmd *cobra.Command, name string) (*namespaces.Manager, namespaces.Config, error) {
	c := namespaces.Config{}
	if err := viper.Unmarshal(&c); err != nil {
		return nil, c, err
	}
	c.Namespace = name
	c.Pretty = pretty()

	k, err := newKubeClient()
	if err != nil {
		return nil, c, err
	}
	var out io.Writer = io.Discard
	if c.Pretty {
		out = cmd.OutOrStdout()
	}
	return namespaces.NewManager(k, logger.Sugar(), out), c, nil
}
