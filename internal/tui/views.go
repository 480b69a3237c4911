package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smsguard/internal/cli"
	"github.com/Veraticus/smsguard/internal/controller"
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/Veraticus/smsguard/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the title and API status line.
func renderHeader(theme themes.Theme, status controller.APIStatus) string {
	title := theme.Title.Render(cli.ShieldIcon + " SMS Spam Detector")
	subtitle := theme.Subtitle.Render("Detect fraud, promotional and normal SMS")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, renderStatus(theme, status), "")
}

// renderStatus renders the API availability indicator.
func renderStatus(theme themes.Theme, status controller.APIStatus) string {
	switch status {
	case controller.StatusOnline:
		return theme.StatusSuccess.Render("● API Online")
	case controller.StatusOffline:
		return theme.StatusError.Render("● API Offline")
	default:
		return theme.StatusPending.Render("● Checking...")
	}
}

// renderInput renders the text area, character counter, submit control and samples.
func (m Model) renderInput(state controller.State, width int) string {
	title := m.theme.Bold.Render("Enter SMS")
	counter := m.theme.Subtitle.Render(fmt.Sprintf("%d/%d", len([]rune(state.Text)), model.MaxTextLength))

	var button string
	switch {
	case state.Loading:
		button = m.theme.ButtonOff.Render("Analyzing...")
	case state.CanSubmit():
		button = m.theme.Button.Render("Detect SMS → " + m.keymap.Submit.Help().Key)
	default:
		button = m.theme.ButtonOff.Render("Detect SMS")
	}

	lines := []string{title, m.input.View(), counter, button}
	if state.APIStatus == controller.StatusOffline {
		lines = append(lines, m.theme.StatusWarning.Render(cli.WarningIcon+" Detection is disabled while the API is offline"))
	}
	lines = append(lines, "", renderSamples(m.theme, m.keymap))

	return m.theme.FocusedBox.Width(max(width-2, 10)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderSamples lists the sample shortcuts.
func renderSamples(theme themes.Theme, keymap KeyMap) string {
	keys := keymap.sampleKeys()
	samples := model.Samples()

	parts := make([]string, 0, len(samples))
	for i, s := range samples {
		if i >= len(keys) {
			break
		}
		parts = append(parts, theme.Code.Render(keys[i].Help().Key)+" "+theme.LabelStyle(s.Kind).Render(sampleName(s.Kind)))
	}

	return theme.Subtitle.Render("Try a sample: ") + strings.Join(parts, "  ")
}

// renderResult renders exactly one of the error, loading, result or empty panels.
func renderResult(theme themes.Theme, state controller.State, spinnerFrame string, width int) string {
	inner := max(width-6, 10)

	var content string
	switch state.Panel() {
	case controller.PanelError:
		content = lipgloss.JoinVertical(lipgloss.Left,
			theme.StatusError.Render(cli.ErrorIcon+" "+state.Error),
			"",
			theme.Subtitle.Render("Edit the text or submit again to retry."),
		)
	case controller.PanelLoading:
		content = lipgloss.JoinVertical(lipgloss.Left,
			"",
			spinnerFrame+" "+theme.Normal.Render("Analyzing SMS..."),
			"",
		)
	case controller.PanelResult:
		content = renderPrediction(theme, *state.Result, inner)
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			"",
			theme.Bold.Render("No result yet"),
			theme.Subtitle.Render("Enter an SMS and press the detect key"),
			"",
		)
	}

	title := theme.Bold.Render("Detection Result")
	return theme.RoundedBox.Width(max(width-2, 10)).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

// renderPrediction renders the label, confidence, probability bars and the analyzed text.
func renderPrediction(theme themes.Theme, p model.Prediction, width int) string {
	header := theme.LabelStyle(p.Label).Render(p.Label.Icon()+" "+p.LabelName) +
		"  " + theme.Code.Render(cli.Percent(p.Confidence))

	lines := []string{
		header,
		theme.Subtitle.Render(p.Label.Description()),
		"",
		theme.Bold.Render("Probability per category"),
	}

	nameWidth := 16
	barWidth := max(width-nameWidth-9, 5)
	for _, lp := range p.Probabilities.Ordered() {
		name := lipgloss.NewStyle().Width(nameWidth).Foreground(theme.LabelColor(lp.Label)).Render(lp.Label.Name())
		bar := cli.ProbabilityBar(lp.Probability, barWidth, theme.LabelColor(lp.Label))
		lines = append(lines, fmt.Sprintf("%s%s %6s", name, bar, cli.Percent(lp.Probability)))
	}

	lines = append(lines,
		"",
		theme.Subtitle.Render("Analyzed SMS:"),
		lipgloss.NewStyle().Width(width).Render(p.Text),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sampleName(l model.Label) string {
	name, _, _ := strings.Cut(l.Name(), "/")
	return strings.ToLower(name)
}
