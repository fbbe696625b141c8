package utils

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input string
		want  string
	}{
		{"~", home},
		{"~/.config/habittracker/habittracker.db", filepath.Join(home, ".config/habittracker/habittracker.db")},
		{"/var/lib/habits.db", "/var/lib/habits.db"},
		{"relative/habits.db", "relative/habits.db"},
		{"~other/habits.db", "~other/habits.db"},
		{"postgresql://localhost/habits", "postgresql://localhost/habits"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
