package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/smsguard/internal/common"
	"github.com/Veraticus/smsguard/internal/config"
	"github.com/Veraticus/smsguard/internal/controller"
	"github.com/Veraticus/smsguard/internal/tui"
	"github.com/Veraticus/smsguard/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func uiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive SMS detector",
		Long: `Open the interactive SMS detector in the terminal.

Type or paste an SMS, press Ctrl+S to classify it, or load one of the
built-in samples with F1-F3. Logs go to ui.log_file (discarded when unset)
so they never draw over the screen.

Examples:
  smsguard ui
  smsguard ui --theme catppuccin-mocha
  smsguard ui --log-file ~/.local/state/smsguard/ui.log`,
		RunE: runUI,
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")
	cmd.Flags().String("log-file", "", "write logs to this file while the UI runs")
	cmd.Flags().Bool("inline", false, "render inline instead of taking over the terminal")

	_ = viper.BindPFlag(config.KeyTheme, cmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag(config.KeyLogFile, cmd.Flags().Lookup("log-file"))

	return cmd
}

func runUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	inline, _ := cmd.Flags().GetBool("inline")

	logger, closeLog, err := uiLogger(settings)
	if err != nil {
		return err
	}
	defer closeLog()

	// Anything logging through the default logger must stay off the screen too.
	slog.SetDefault(logger)

	client, err := newClient(settings, logger)
	if err != nil {
		return common.NewUserError("Invalid API URL", err)
	}

	logger.Info("starting UI", "api_url", client.BaseURL(), "theme", settings.Theme)

	ctrl := controller.New(ctx, client, controller.WithLogger(logger))
	return tui.Run(ctx, ctrl,
		tui.WithTheme(themes.GetTheme(settings.Theme)),
		tui.WithAltScreen(!inline),
	)
}

// uiLogger returns a logger that writes to the configured log file, or discards everything.
func uiLogger(s config.Settings) (*slog.Logger, func(), error) {
	level, err := common.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if s.LogFile == "" {
		logger, err := common.NewLogger(io.Discard, level, s.LogFormat)
		return logger, func() {}, err
	}

	if err := os.MkdirAll(filepath.Dir(s.LogFile), 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger, err := common.NewLogger(f, level, s.LogFormat)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return logger, func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", closeErr)
		}
	}, nil
}
