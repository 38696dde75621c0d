package util

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"SSE":       "sse",
		"  Debug\n": "debug",
		"log-level": "log-level",
		"":          "",
	}
	for in, want := range tests {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
