// Package main provides an offline demo of the detector TUI.
// It answers the built-in samples with canned predictions so the UI can be
// explored without a running prediction service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/smsguard/internal/controller"
	"github.com/Veraticus/smsguard/internal/tui"
	"github.com/Veraticus/smsguard/internal/tui/themes"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := controller.New(ctx, newDemoPredictor())

	theme := themes.Default
	if len(os.Args) > 1 {
		theme = themes.GetTheme(os.Args[1])
	}

	if err := tui.Run(ctx, ctrl, tui.WithTheme(theme), tui.WithSize(120, 40)); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
