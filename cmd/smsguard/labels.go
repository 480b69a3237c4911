package main

import (
	"fmt"

	"github.com/Veraticus/smsguard/internal/cli"
	"github.com/spf13/cobra"
)

func labelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List the categories the service predicts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), cli.FormatLabels())
			return err
		},
	}
}
