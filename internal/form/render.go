package form

import (
	"fmt"
	"strings"

	"github.com/cerfical/iplookup/internal/ipinfo"
)

const (
	Title       = "IP Address Information"
	Placeholder = "Enter IP address"
	InfoHeading = "IP Information:"
)

// Field is a labelled value of the information block.
type Field struct {
	Label string
	Value string
}

// InfoFields lists the values shown for info, in display order.
func InfoFields(info *ipinfo.Info) []Field {
	return []Field{
		{"IP Address", info.IP},
		{"Subnet", info.Subnet},
		{"Gateway", info.Gateway},
		{"Class", info.Class},
		{"Type", info.Type()},
	}
}

// Render formats the outcome of the latest submission as plain text.
// Idle and pending states render as an empty string.
func (s State) Render() string {
	var b strings.Builder

	switch s.Phase() {
	case PhaseFailed:
		fmt.Fprintln(&b, s.Error)
	case PhaseSuccess:
		fmt.Fprintln(&b, InfoHeading)
		for _, f := range InfoFields(s.Result) {
			fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
		}
	}

	return b.String()
}
