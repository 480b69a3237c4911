// Package themes holds the color schemes for the terminal UI.
package themes

import (
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Code          lipgloss.Style
	RoundedBox    lipgloss.Style
	FocusedBox    lipgloss.Style
	Button        lipgloss.Style
	ButtonOff     lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
	LabelNormal   lipgloss.Color
	LabelFraud    lipgloss.Color
	LabelPromo    lipgloss.Color
}

// LabelColor returns the theme color for a label.
func (t Theme) LabelColor(l model.Label) lipgloss.Color {
	switch l {
	case model.LabelNormal:
		return t.LabelNormal
	case model.LabelFraud:
		return t.LabelFraud
	case model.LabelPromo:
		return t.LabelPromo
	default:
		return t.Muted
	}
}

// LabelStyle returns a bold style in the label's color.
func (t Theme) LabelStyle(l model.Label) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.LabelColor(l))
}

func build(p palette) Theme {
	return Theme{
		Primary:     p.primary,
		Muted:       p.muted,
		Border:      p.border,
		Error:       p.red,
		Success:     p.green,
		LabelNormal: p.green,
		LabelFraud:  p.red,
		LabelPromo:  p.blue,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Code: lipgloss.NewStyle().
			Background(p.surface).
			Foreground(p.foreground).
			Padding(0, 1),

		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		FocusedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		Button: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onPrimary).
			Bold(true).
			Padding(0, 2),
		ButtonOff: lipgloss.NewStyle().
			Background(p.surface).
			Foreground(p.muted).
			Padding(0, 2),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.green).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.yellow).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.red).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

type palette struct {
	primary    lipgloss.Color
	onPrimary  lipgloss.Color
	foreground lipgloss.Color
	subtle     lipgloss.Color
	muted      lipgloss.Color
	border     lipgloss.Color
	surface    lipgloss.Color
	green      lipgloss.Color
	red        lipgloss.Color
	blue       lipgloss.Color
	yellow     lipgloss.Color
}

// Default is the default theme.
var Default = build(palette{
	primary:    lipgloss.Color("#7c3aed"),
	onPrimary:  lipgloss.Color("#fafafa"),
	foreground: lipgloss.Color("#fafafa"),
	subtle:     lipgloss.Color("#a3a3a3"),
	muted:      lipgloss.Color("#737373"),
	border:     lipgloss.Color("#404040"),
	surface:    lipgloss.Color("#262626"),
	green:      lipgloss.Color("#10b981"),
	red:        lipgloss.Color("#ef4444"),
	blue:       lipgloss.Color("#3b82f6"),
	yellow:     lipgloss.Color("#f59e0b"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:    lipgloss.Color("#cba6f7"),
	onPrimary:  lipgloss.Color("#1e1e2e"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	muted:      lipgloss.Color("#6c7086"),
	border:     lipgloss.Color("#45475a"),
	surface:    lipgloss.Color("#313244"),
	green:      lipgloss.Color("#a6e3a1"),
	red:        lipgloss.Color("#f38ba8"),
	blue:       lipgloss.Color("#89b4fa"),
	yellow:     lipgloss.Color("#f9e2af"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
