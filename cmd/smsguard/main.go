// Package main contains the smsguard CLI commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/smsguard/internal/api"
	"github.com/Veraticus/smsguard/internal/cli"
	"github.com/Veraticus/smsguard/internal/common"
	"github.com/Veraticus/smsguard/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	settings config.Settings
	version  = "dev"
	rootCmd  = &cobra.Command{
		Use:   "smsguard",
		Short: "🛡️  SMS fraud and promo detector",
		Long: `smsguard: classify SMS messages as Normal, Fraud/Penipuan or Promo
using a remote prediction service.

Run "smsguard ui" for the interactive detector, or "smsguard predict" for a
one-shot answer in scripts.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/smsguard/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("api-url", "", "prediction service base URL (default: "+api.DefaultBaseURL+")")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyAPIURL, rootCmd.PersistentFlags().Lookup("api-url"))

	// Add commands
	rootCmd.AddCommand(uiCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(labelsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()

	cmd, err := rootCmd.ExecuteContextC(ctx)
	cancel()

	if err != nil {
		reportFailure(os.Stderr, cmd, err)
		os.Exit(1)
	}
}

// reportFailure prints the user-facing message and logs the full error chain at debug level.
func reportFailure(w io.Writer, cmd *cobra.Command, err error) {
	fields := common.Fields{"error_chain": err.Error()}
	if cmd != nil {
		fields["command"] = cmd.CommandPath()
	}
	common.LogDebug("Command failed", fields)

	fmt.Fprintln(w, cli.FormatError(common.UserMessage(err)))
}

func initConfig(_ *cobra.Command, _ []string) error {
	// .env values become plain environment variables before viper looks at them
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/smsguard", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	resolved, err := config.Load(viper.GetViper())
	if err != nil {
		return common.NewUserError("Invalid configuration", err)
	}
	settings = resolved

	// Set up logging
	if err := setupLogging(settings); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging(s config.Settings) error {
	level, err := common.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	return common.SetupLogger(os.Stderr, level, s.LogFormat)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "smsguard %s\n", version)
		},
	}
}
