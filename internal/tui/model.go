// Package tui implements the interactive terminal rendition of the lookup form.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cerfical/iplookup/internal/form"
	"github.com/cerfical/iplookup/internal/ipinfo"
	"github.com/cerfical/iplookup/internal/log"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const helpText = "enter: get info • esc: quit"

func New(ctx context.Context, l form.Lookuper, ops ...Option) Model {
	defaults := []Option{
		WithStyles(DefaultStyles()),
		WithLogger(log.Discard),
	}

	m := Model{
		ctx:    ctx,
		lookup: l,
	}
	for _, op := range slices.Concat(defaults, ops) {
		op(&m)
	}

	m.input = textinput.New()
	m.input.Placeholder = form.Placeholder
	m.input.Prompt = "> "
	m.input.PromptStyle = m.styles.Prompt
	m.input.CharLimit = 256
	m.input.Width = 48
	m.input.Focus()

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	return m
}

func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		m.log = l
	}
}

type Option func(*Model)

// Model is the bubbletea model of the lookup form.
type Model struct {
	ctx    context.Context
	lookup form.Lookuper
	state  form.State

	input   textinput.Model
	spinner spinner.Model
	styles  Styles

	log *log.Logger
}

// lookupDoneMsg carries the outcome of the submission identified by token.
type lookupDoneMsg struct {
	token uint64
	info  *ipinfo.Info
	err   error
}

// State returns the view state currently displayed.
func (m Model) State() form.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case lookupDoneMsg:
		if msg.token != m.state.Token {
			m.log.Verbose("Discarding a superseded lookup result", log.Fields{"token": msg.token})
			return m, nil
		}

		if msg.err != nil {
			m.state = form.SubmitFailed(m.state, msg.token, msg.err)
		} else {
			m.state = form.SubmitSucceeded(m.state, msg.token, msg.info)
		}
		return m, nil

	case spinner.TickMsg:
		// Let the spinner stop once nothing is pending
		if !m.state.Pending {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state = form.InputChanged(m.state, m.input.Value())
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.state = form.SubmitStarted(m.state)
	token, query := m.state.Token, m.state.Query

	ctx, lookup := m.ctx, m.lookup
	doLookup := func() tea.Msg {
		info, err := lookup.Lookup(ctx, query)
		return lookupDoneMsg{token, info, err}
	}

	return m, tea.Batch(doLookup, m.spinner.Tick)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(form.Title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.state.Phase() {
	case form.PhasePending:
		b.WriteString(m.styles.Pending.Render(
			fmt.Sprintf("%s Looking up %s", m.spinner.View(), m.state.Query),
		))
		b.WriteString("\n\n")
	case form.PhaseFailed:
		b.WriteString(m.styles.Error.Render(m.state.Error))
		b.WriteString("\n\n")
	case form.PhaseSuccess:
		b.WriteString(m.renderInfo(m.state.Result))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Help.Render(helpText))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderInfo(info *ipinfo.Info) string {
	lines := []string{m.styles.Heading.Render(form.InfoHeading)}
	for _, f := range form.InfoFields(info) {
		lines = append(lines, m.styles.Label.Render(f.Label+":")+" "+f.Value)
	}
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}
