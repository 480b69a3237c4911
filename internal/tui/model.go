// Package tui implements the interactive terminal front end for SMS detection.
package tui

import (
	"context"

	"github.com/Veraticus/smsguard/internal/controller"
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/Veraticus/smsguard/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	wideLayoutWidth = 100
	inputHeight     = 6
)

// Model is the bubbletea model. Session state lives in the controller;
// the model only owns widget state.
type Model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	spinner  spinner.Model
	input    textarea.Model
	config   Config
	width    int
	height   int
	spinning bool
	quitting bool
}

// New creates the TUI model around ctrl.
func New(ctx context.Context, ctrl *controller.Controller, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textarea.New()
	input.Placeholder = "Example: Selamat! Anda memenangkan hadiah..."
	input.CharLimit = model.MaxTextLength
	input.ShowLineNumbers = false
	input.SetValue(ctrl.Snapshot().Text)
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(cfg.Theme.Primary)),
	)

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  spin,
		input:    input,
		config:   cfg,
		width:    cfg.Width,
		height:   cfg.Height,
		spinning: true,
	}
	m.resize()

	return m
}

// Init starts the cursor blink, the spinner and the one-time health check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		checkHealth(m.ctx, m.ctrl),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case healthCheckedMsg, predictionDoneMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.ctrl.Close()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Submit):
			return m, m.submit()
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keymap.ClearScreen):
			return m, tea.ClearScreen
		}

		for i, binding := range m.keymap.sampleKeys() {
			if key.Matches(msg, binding) {
				m.selectSample(i)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != m.ctrl.Snapshot().Text {
		m.ctrl.SetText(value)
	}

	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.ctrl.Snapshot()

	header := renderHeader(m.theme, state.APIStatus)

	var body string
	if m.width >= wideLayoutWidth {
		panelWidth := (m.width - 2) / 2
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderInput(state, panelWidth),
			"  ",
			renderResult(m.theme, state, m.spinner.View(), panelWidth),
		)
	} else {
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderInput(state, m.width),
			renderResult(m.theme, state, m.spinner.View(), m.width),
		)
	}

	sections := []string{header, body}
	if m.config.ShowHelp {
		sections = append(sections, m.help.View(m.keymap))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// submit starts a prediction when the controller's guard allows it.
func (m *Model) submit() tea.Cmd {
	sub, ok := m.ctrl.Begin()
	if !ok {
		return nil
	}

	cmds := []tea.Cmd{executeSubmission(m.ctx, sub)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) selectSample(i int) {
	samples := model.Samples()
	if i < 0 || i >= len(samples) {
		return
	}
	m.ctrl.SelectSample(samples[i].Text)
	m.input.SetValue(samples[i].Text)
}

// busy reports whether anything is pending that the spinner should show.
func (m Model) busy() bool {
	state := m.ctrl.Snapshot()
	return state.Loading || state.APIStatus == controller.StatusChecking
}

// resize fits the text area to the current layout.
func (m *Model) resize() {
	panelWidth := m.width
	if m.width >= wideLayoutWidth {
		panelWidth = (m.width - 2) / 2
	}
	// Border and padding take two columns each side.
	m.input.SetWidth(max(panelWidth-4, 10))
	m.input.SetHeight(inputHeight)
	m.help.Width = m.width
}
