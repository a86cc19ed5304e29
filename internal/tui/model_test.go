package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/cerfical/iplookup/internal/form"
	"github.com/cerfical/iplookup/internal/ipinfo"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/suite"
)

func TestModel(t *testing.T) {
	suite.Run(t, new(ModelTest))
}

type ModelTest struct {
	suite.Suite
}

func (t *ModelTest) TestView() {
	t.Run("shows the title and an empty input when idle", func() {
		m := New(context.Background(), staticLookup(nil, nil))
		view := m.View()

		t.Contains(view, "IP Address Information")
		t.Contains(view, "Enter IP address")
		t.NotContains(view, "IP Information:")
	})

	t.Run("shows the information block after a successful lookup", func() {
		m := New(context.Background(), staticLookup(&ipinfo.Info{
			IP:      "8.8.8.8",
			Subnet:  "255.255.255.0",
			Gateway: "8.8.8.1",
			Class:   "A",
		}, nil))

		m = t.typeText(m, "8.8.8.8")
		m = t.submitAndWait(m)
		view := m.View()

		t.Contains(view, "IP Information:")
		t.Contains(view, "IP Address: 8.8.8.8")
		t.Contains(view, "Subnet: 255.255.255.0")
		t.Contains(view, "Gateway: 8.8.8.1")
		t.Contains(view, "Class: A")
		t.Contains(view, "Type: Public")
	})

	t.Run("shows private addresses as private", func() {
		m := New(context.Background(), staticLookup(&ipinfo.Info{IP: "192.168.1.5", IsPrivate: true}, nil))

		m = t.typeText(m, "192.168.1.5")
		m = t.submitAndWait(m)

		t.Contains(m.View(), "Type: Private")
	})

	t.Run("shows the error message and no information after a failure", func() {
		m := New(context.Background(), staticLookup(nil, &ipinfo.StatusError{StatusCode: 500}))

		m = t.typeText(m, "8.8.8.8")
		m = t.submitAndWait(m)
		view := m.View()

		t.Contains(view, "Failed to fetch IP information")
		t.NotContains(view, "IP Information:")
	})

	t.Run("shows a pending line while the lookup is in flight", func() {
		m := New(context.Background(), staticLookup(nil, nil))

		m = t.typeText(m, "8.8.8.8")
		m, _ = t.update(m, tea.KeyMsg{Type: tea.KeyEnter})

		t.Contains(m.View(), "Looking up 8.8.8.8")
	})
}

func (t *ModelTest) TestUpdate() {
	t.Run("typing updates the query", func() {
		m := New(context.Background(), staticLookup(nil, nil))
		m = t.typeText(m, "10.0.0.1")

		t.Equal("10.0.0.1", m.State().Query)
	})

	t.Run("submitting looks up the current query", func() {
		queries := make(chan string, 1)
		m := New(context.Background(), form.LookupFunc(func(ctx context.Context, query string) (*ipinfo.Info, error) {
			queries <- query
			return &ipinfo.Info{}, nil
		}))

		m = t.typeText(m, "1.1.1.1")
		_ = t.submitAndWait(m)

		t.Equal("1.1.1.1", <-queries)
	})

	t.Run("submitting clears the previous outcome", func() {
		m := New(context.Background(), staticLookup(nil, errors.New("connection refused")))
		m = t.submitAndWait(m)
		t.Equal(form.PhaseFailed, m.State().Phase())

		m, _ = t.update(m, tea.KeyMsg{Type: tea.KeyEnter})
		t.Equal(form.PhasePending, m.State().Phase())
		t.Empty(m.State().Error)
	})

	t.Run("results of superseded submissions are discarded", func() {
		m := New(context.Background(), staticLookup(&ipinfo.Info{IP: "8.8.8.8"}, nil))

		m, first := t.update(m, tea.KeyMsg{Type: tea.KeyEnter})
		m, second := t.update(m, tea.KeyMsg{Type: tea.KeyEnter})

		firstDone := findLookupDone(first)
		secondDone := findLookupDone(second)
		t.Require().NotNil(firstDone)
		t.Require().NotNil(secondDone)

		// The stale answer arrives last and must be ignored
		firstDone.err = errors.New("stale failure")
		m, _ = t.update(m, *secondDone)
		m, _ = t.update(m, *firstDone)

		t.Equal(form.PhaseSuccess, m.State().Phase())
		t.Empty(m.State().Error)
	})

	t.Run("esc and ctrl+c quit", func() {
		for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
			m := New(context.Background(), staticLookup(nil, nil))

			_, cmd := t.update(m, tea.KeyMsg{Type: key})
			t.Require().NotNil(cmd)
			t.Equal(tea.QuitMsg{}, cmd())
		}
	})
}

func (t *ModelTest) typeText(m Model, text string) Model {
	t.T().Helper()

	m, _ = t.update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// submitAndWait presses enter and feeds the lookup outcome back into the model.
func (t *ModelTest) submitAndWait(m Model) Model {
	t.T().Helper()

	m, cmd := t.update(m, tea.KeyMsg{Type: tea.KeyEnter})
	done := findLookupDone(cmd)
	t.Require().NotNil(done, "submitting must issue a lookup")

	m, _ = t.update(m, *done)
	return m
}

func (t *ModelTest) update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.T().Helper()

	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	t.Require().True(ok)
	return model, cmd
}

// findLookupDone runs cmd, expanding batches, and returns the lookup outcome it produces.
func findLookupDone(cmd tea.Cmd) *lookupDoneMsg {
	if cmd == nil {
		return nil
	}

	switch msg := cmd().(type) {
	case lookupDoneMsg:
		return &msg
	case tea.BatchMsg:
		for _, c := range msg {
			if done := findLookupDone(c); done != nil {
				return done
			}
		}
	}
	return nil
}

func staticLookup(info *ipinfo.Info, err error) form.Lookuper {
	return form.LookupFunc(func(ctx context.Context, query string) (*ipinfo.Info, error) {
		return info, err
	})
}
