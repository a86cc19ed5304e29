package form

import (
	"context"
	"slices"
	"sync"

	"github.com/cerfical/iplookup/internal/ipinfo"
	"github.com/cerfical/iplookup/internal/log"
)

// Lookuper fetches information about an IP address.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*ipinfo.Info, error)
}

// LookupFunc adapts an ordinary function to the [Lookuper] interface.
type LookupFunc func(ctx context.Context, query string) (*ipinfo.Info, error)

func (f LookupFunc) Lookup(ctx context.Context, query string) (*ipinfo.Info, error) {
	return f(ctx, query)
}

func New(l Lookuper, ops ...Option) *Form {
	defaults := []Option{
		WithLogger(log.Discard),
	}

	f := Form{lookup: l}
	for _, op := range slices.Concat(defaults, ops) {
		op(&f)
	}
	return &f
}

func WithLogger(l *log.Logger) Option {
	return func(f *Form) {
		f.log = l
	}
}

type Option func(*Form)

// Form holds the view state of the lookup form and is safe for concurrent use.
type Form struct {
	mu     sync.Mutex
	state  State
	lookup Lookuper

	log *log.Logger
}

// State returns a snapshot of the current view state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// SetQuery replaces the entered text.
func (f *Form) SetQuery(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = InputChanged(f.state, text)
}

// Submit performs one lookup of the current query and returns the resulting state.
// When submissions overlap, only the most recent one determines the outcome.
func (f *Form) Submit(ctx context.Context) State {
	f.mu.Lock()
	f.state = SubmitStarted(f.state)
	token, query := f.state.Token, f.state.Query
	f.mu.Unlock()

	info, err := f.lookup.Lookup(ctx, query)

	f.mu.Lock()
	defer f.mu.Unlock()

	if token != f.state.Token {
		f.log.Verbose("Discarding a superseded lookup result", log.Fields{
			"query": query,
			"token": token,
		})
		return f.state
	}

	if err != nil {
		f.state = SubmitFailed(f.state, token, err)
	} else {
		f.state = SubmitSucceeded(f.state, token, info)
	}
	return f.state
}
