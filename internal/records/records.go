// Package records converts hcloud SDK objects into the plain records the
// tools return. Converters are pure and total: a nil input yields a nil
// record and an absent sub-object becomes a JSON null.
package records

import (
	"net"
	"time"
)

// timestamp renders t as RFC 3339, or nil when t is unset.
func timestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// labels never returns nil so that records always carry an object.
func labels(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func cidrs(nets []net.IPNet) []string {
	out := make([]string, 0, len(nets))
	for _, n := range nets {
		out = append(out, n.String())
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
