package main

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPlayerCell(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"ada", "ada         "},
		{"a-very-long-username", "a-very-long…"},
		{"学生", "学生        "},
	}
	for _, tt := range tests {
		got := playerCell(tt.name)
		if got != tt.want {
			t.Errorf("playerCell(%q) = %q, want %q", tt.name, got, tt.want)
		}
		if w := runewidth.StringWidth(got); w != 12 {
			t.Errorf("playerCell(%q) is %d cells wide, want 12", tt.name, w)
		}
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"0.0.0.0:2222":   "2222",
		"[::1]:2200":     "2200",
		"no-port-at-all": "no-port-at-all",
	}
	for addr, want := range tests {
		if got := portOf(addr); got != want {
			t.Errorf("portOf(%q) = %q, want %q", addr, got, want)
		}
	}
}
