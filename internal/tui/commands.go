package tui

import (
	"context"

	"github.com/Veraticus/smsguard/internal/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// checkHealth runs the controller's one-time health check off the event loop.
func checkHealth(ctx context.Context, ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		return healthCheckedMsg{status: ctrl.Init(ctx)}
	}
}

// executeSubmission performs an accepted submission off the event loop.
func executeSubmission(ctx context.Context, sub *controller.Submission) tea.Cmd {
	return func() tea.Msg {
		sub.Execute(ctx)
		return predictionDoneMsg{}
	}
}
