package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/everest-platform/console/pkg/cli/printer"
)

type clusterStatus struct {
	ClusterType   string   `json:"clusterType"`
	ServerVersion string   `json:"serverVersion"`
	DBNamespaces  []string `json:"dbNamespaces"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Kubernetes cluster and the Everest namespaces",
	Long:  `Display the detected cluster type, the Kubernetes server version and the database namespaces managed by Everest.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	k, err := newKubeClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	clusterType, err := k.GetClusterType(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect the cluster type: %w", err)
	}
	info, err := k.GetServerVersion()
	if err != nil {
		return err
	}
	namespaces, err := k.GetDBNamespaces(ctx)
	if err != nil {
		return err
	}

	s := clusterStatus{
		ClusterType:   string(clusterType),
		ServerVersion: info.GitVersion,
		DBNamespaces:  namespaces,
	}
	if viper.GetBool(flagJSON) {
		return printer.PrintJSON(cmd.OutOrStdout(), s)
	}
	tbl := printer.NewTablePrinter(cmd.OutOrStdout())
	tbl.SetHeader("CLUSTER TYPE", "SERVER VERSION", "DB NAMESPACES")
	tbl.AddRow(s.ClusterType, s.ServerVersion, strings.Join(s.DBNamespaces, ","))
	tbl.Print()
	return nil
}
