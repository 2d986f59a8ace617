package cli

import (
	"errors"
	"strings"
)

// FormatError formats an error and its cause chain for display:
//
//	error: failed to generate a record for the default.t table
//	  caused by: no default rust mapping for `Date`; ...
//
// Every layer shows only the context it adds to its cause.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	layers := causes(err)

	var b strings.Builder
	b.WriteString(Error("error"))
	b.WriteString(": ")
	b.WriteString(layers[0])
	b.WriteString("\n")
	for _, layer := range layers[1:] {
		b.WriteString("  ")
		b.WriteString(Note("caused by"))
		b.WriteString(": ")
		b.WriteString(layer)
		b.WriteString("\n")
	}
	return b.String()
}

// causes splits the messages of err's Unwrap chain. A wrapper whose message
// does not end with its cause's message is shown whole and ends the chain.
func causes(err error) []string {
	var out []string
	for err != nil {
		msg := err.Error()
		next := errors.Unwrap(err)
		if next == nil {
			out = append(out, msg)
			break
		}

		inner := next.Error()
		switch {
		case msg == inner:
			// Transparent wrapper.
		case inner != "" && strings.HasSuffix(msg, ": "+inner):
			out = append(out, strings.TrimSuffix(msg, ": "+inner))
		default:
			return append(out, msg)
		}
		err = next
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}
