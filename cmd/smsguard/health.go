package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/smsguard/internal/cli"
	"github.com/Veraticus/smsguard/internal/common"
	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the prediction service is ready",
		Long: `Check whether the prediction service is reachable and has its model loaded.

Exits non-zero when the service is unreachable or the model is not loaded,
so it can gate scripts:

  smsguard health && smsguard batch --file inbox.txt`,
		RunE: runHealth,
	}

	cmd.Flags().Bool("json", false, "print the raw health response as JSON")

	return cmd
}

func runHealth(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	client, err := newClient(settings, slog.Default())
	if err != nil {
		return common.NewUserError("Invalid API URL", err)
	}

	health, err := client.CheckHealth(cmd.Context())
	if err != nil {
		return common.NewUserError(fmt.Sprintf("API Offline: cannot reach %s", client.BaseURL()), err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(health); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, cli.FormatHealth(client.BaseURL(), health))
	}

	if !health.ModelLoaded {
		return common.NewUserError("Model is not loaded", common.ErrServiceOffline)
	}
	return nil
}
