// Package form models the IP lookup form as an immutable view state
// that changes only through a fixed set of transitions.
package form

import "github.com/cerfical/iplookup/internal/ipinfo"

// fallbackErrorMessage is shown for failures that carry no text of their own.
const fallbackErrorMessage = "Unknown error"

// Phase is the display state derived from a [State].
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return ""
	}
}

// State is the data the form displays.
// Result and Error are never set at the same time.
type State struct {
	// Query is the text currently entered by the user.
	Query string

	// Result holds the information reported by the last successful submission.
	Result *ipinfo.Info

	// Error holds the message of the last failed submission.
	Error string

	// Pending is set while the latest submission awaits its answer.
	Pending bool

	// Token identifies the latest submission.
	Token uint64
}

func (s State) Phase() Phase {
	switch {
	case s.Pending:
		return PhasePending
	case s.Error != "":
		return PhaseFailed
	case s.Result != nil:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// InputChanged replaces the query with text. Any text is accepted.
func InputChanged(s State, text string) State {
	s.Query = text
	return s
}

// SubmitStarted clears the previous outcome and issues a token for a new submission.
func SubmitStarted(s State) State {
	s.Result = nil
	s.Error = ""
	s.Pending = true
	s.Token++
	return s
}

// SubmitSucceeded records info as the outcome of the submission identified by token.
// Outcomes of superseded submissions are ignored.
func SubmitSucceeded(s State, token uint64, info *ipinfo.Info) State {
	if token != s.Token {
		return s
	}

	var result ipinfo.Info
	if info != nil {
		result = *info
	}

	s.Result = &result
	s.Error = ""
	s.Pending = false
	return s
}

// SubmitFailed records err as the outcome of the submission identified by token.
// Outcomes of superseded submissions are ignored.
func SubmitFailed(s State, token uint64, err error) State {
	if token != s.Token {
		return s
	}

	msg := fallbackErrorMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	s.Result = nil
	s.Error = msg
	s.Pending = false
	return s
}
