package tui

import "github.com/Veraticus/smsguard/internal/controller"

// healthCheckedMsg reports that the startup health check resolved.
type healthCheckedMsg struct {
	status controller.APIStatus
}

// predictionDoneMsg reports that a submission finished; the outcome lives in the controller.
type predictionDoneMsg struct{}
