package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/everest-platform/console/pkg/cli/printer"
	"github.com/everest-platform/console/pkg/cli/watch"
	"github.com/everest-platform/console/sdk"
)

const (
	flagServer    = "server"
	flagToken     = "token"
	flagNamespace = "namespace"
	flagInterval  = "interval"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the status of database clusters",
	Long: `Poll the Everest API and print every status change of the database
clusters in a namespace until interrupted.

Authenticate with --token, or with --username and --password.`,
	Example: `everestctl watch --server https://everest.example.com --namespace dev --username admin --password secret`,
	Args:    cobra.NoArgs,
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String(flagServer, "http://localhost:8080", "Everest API address")
	watchCmd.Flags().String(flagToken, "", "Session token")
	watchCmd.Flags().StringP(flagUsername, "u", "", "Account user name")
	watchCmd.Flags().StringP(flagPassword, "p", "", "Account password")
	watchCmd.Flags().StringP(flagNamespace, "n", "", "Namespace to watch")
	watchCmd.Flags().Duration(flagInterval, watch.DefaultInterval, "Time between polls")
	_ = watchCmd.MarkFlagRequired(flagNamespace)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, err := sdk.NewClient(sdk.ClientConfig{
		BaseURL: viper.GetString(flagServer),
		Token:   viper.GetString(flagToken),
	})
	if err != nil {
		return err
	}
	if client.Token() == "" {
		if err := client.Login(ctx, viper.GetString(flagUsername), viper.GetString(flagPassword)); err != nil {
			return fmt.Errorf("failed to log in: %w", err)
		}
		defer client.Logout(context.WithoutCancel(ctx)) //nolint:errcheck
	}

	out := cmd.OutOrStdout()
	asJSON := viper.GetBool(flagJSON)
	p := watch.NewPoller(watch.PollerConfig{
		Client:    client,
		Logger:    logger,
		Namespace: viper.GetString(flagNamespace),
		Interval:  viper.GetDuration(flagInterval),
		OnChange: func(t watch.Transition) {
			if asJSON {
				_ = printer.PrintJSON(out, t)
				return
			}
			fmt.Fprintln(out, formatTransition(t))
		},
	})
	p.Run(ctx)
	return nil
}

func formatTransition(t watch.Transition) string {
	switch {
	case t.From == "" && t.To == "":
		return fmt.Sprintf("%s: created", t.Name)
	case t.From == "" && t.To != "":
		return fmt.Sprintf("%s: %s", t.Name, t.To)
	case t.To == "":
		return fmt.Sprintf("%s: removed", t.Name)
	default:
		return fmt.Sprintf("%s: %s -> %s", t.Name, t.From, t.To)
	}
}
