package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smsguard/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 30

// Percent formats a probability as a percentage with one decimal.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// ProbabilityBar draws a horizontal bar of the given width filled to p.
func ProbabilityBar(p float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = defaultBarWidth
	}
	switch {
	case p < 0:
		p = 0
	case p > 1:
		p = 1
	}

	filled := int(p*float64(width) + 0.5)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	empty := SubtleStyle.Render(strings.Repeat("░", width-filled))
	return bar + empty
}

// FormatPrediction renders a prediction as a boxed report.
func FormatPrediction(p model.Prediction) string {
	var b strings.Builder

	header := LabelStyle(p.Label).Render(p.Label.Icon()+" "+p.LabelName) +
		"  " + BoldStyle.Render(Percent(p.Confidence))
	b.WriteString(header + "\n")
	b.WriteString(SubtleStyle.Render(p.Label.Description()) + "\n\n")

	b.WriteString(BoldStyle.Render("Probability per category") + "\n")
	for _, lp := range p.Probabilities.Ordered() {
		name := lipgloss.NewStyle().Width(16).Foreground(LabelColor(lp.Label)).Render(lp.Label.Name())
		fmt.Fprintf(&b, "%s %s %7s\n", name, ProbabilityBar(lp.Probability, defaultBarWidth, LabelColor(lp.Label)), Percent(lp.Probability))
	}

	b.WriteString("\n" + SubtleStyle.Render("Analyzed SMS:") + "\n")
	b.WriteString(p.Text)

	return RenderBox("Detection Result", b.String())
}

// FormatHealth renders a health report as a single status line.
func FormatHealth(baseURL string, h model.Health) string {
	if h.ModelLoaded {
		return FormatSuccess(fmt.Sprintf("API Online at %s (status %s, version %s)", baseURL, h.Status, h.Version))
	}
	return FormatWarning(fmt.Sprintf("API Offline at %s: model not loaded (status %s, version %s)", baseURL, h.Status, h.Version))
}

// FormatLabels renders the label taxonomy as a table.
func FormatLabels() string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-6s %-16s %s", "INDEX", "NAME", "DESCRIPTION")) + "\n")
	for _, l := range model.Labels() {
		fmt.Fprintf(&b, "%-6d %s %s\n", int(l),
			LabelStyle(l).Width(16).Render(l.Name()),
			l.Description())
	}
	return b.String()
}
