package controller

import (
	"strings"

	"github.com/Veraticus/smsguard/internal/model"
)

// APIStatus is the availability of the prediction service as seen by the controller.
type APIStatus int

const (
	// StatusChecking means the health check has not resolved yet.
	StatusChecking APIStatus = iota
	// StatusOnline means the service answered and has a model loaded.
	StatusOnline
	// StatusOffline means the service is unreachable or has no model.
	StatusOffline
)

func (s APIStatus) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// StatusFromHealth maps a health report to an APIStatus.
func StatusFromHealth(h model.Health) APIStatus {
	if h.ModelLoaded {
		return StatusOnline
	}
	return StatusOffline
}

// Panel identifies which of the mutually exclusive result areas is shown.
type Panel int

const (
	PanelEmpty Panel = iota
	PanelError
	PanelLoading
	PanelResult
)

func (p Panel) String() string {
	switch p {
	case PanelError:
		return "error"
	case PanelLoading:
		return "loading"
	case PanelResult:
		return "result"
	default:
		return "empty"
	}
}

// State is a point-in-time copy of the controller's state.
type State struct {
	Result    *model.Prediction
	Text      string
	Error     string
	APIStatus APIStatus
	Loading   bool
}

// Panel selects the area to render: error, then loading, then result, else empty.
func (s State) Panel() Panel {
	switch {
	case s.Error != "":
		return PanelError
	case s.Loading:
		return PanelLoading
	case s.Result != nil:
		return PanelResult
	default:
		return PanelEmpty
	}
}

// CanSubmit reports whether a submit would start a request.
func (s State) CanSubmit() bool {
	return strings.TrimSpace(s.Text) != "" && !s.Loading && s.APIStatus != StatusOffline
}

func (s State) clone() State {
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}
