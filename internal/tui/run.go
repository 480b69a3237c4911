package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/smsguard/internal/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive program and blocks until the user quits or ctx ends.
// The controller is closed on return so no late response outlives the session.
func Run(ctx context.Context, ctrl *controller.Controller, opts ...Option) error {
	if ctrl == nil {
		return fmt.Errorf("controller is required")
	}
	defer ctrl.Close()

	m := New(ctx, ctrl, opts...)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
