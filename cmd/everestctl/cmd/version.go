package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/everest-platform/console/pkg/cli/printer"
	"github.com/everest-platform/console/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the everestctl version, commit and Go version.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.Info()
		if viper.GetBool(flagJSON) {
			return printer.PrintJSON(cmd.OutOrStdout(), info)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", info.ProjectName, info.Version)
		fmt.Fprintf(out, "Commit: %s\n", info.FullCommit)
		fmt.Fprintf(out, "Go: %s\n", runtime.Version())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
