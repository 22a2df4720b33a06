package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/everest-platform/console/pkg/cli/uninstall"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall Everest",
	Long: `Delete every database cluster, backup storage and monitoring instance
managed by Everest, then the database, monitoring and system namespaces.`,
	Example: `everestctl uninstall --assume-yes --force`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := uninstall.Config{}
		if err := viper.Unmarshal(&c); err != nil {
			return err
		}
		c.Pretty = pretty()

		k, err := newKubeClient()
		if err != nil {
			return err
		}
		return uninstall.NewUninstall(c, k, logger.Sugar(), cmd.OutOrStdout()).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
	uninstallCmd.Flags().BoolP(uninstall.FlagAssumeYes, "y", false, "Assume yes to all questions")
	uninstallCmd.Flags().BoolP(uninstall.FlagForce, "f", false, "Delete database clusters without asking")
}
