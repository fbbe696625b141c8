package cli

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestRender(t *testing.T) {
	v := []sample{{Name: "Exercise", Count: 3}}

	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, "[\n  {\n    \"name\": \"Exercise\",\n    \"count\": 3\n  }\n]\n"},
		{FormatYAML, "- name: Exercise\n  count: 3\n"},
		{FormatText, "text view\n"},
		{"", "text view\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, tt.format, v, func() error {
				buf.WriteString("text view\n")
				return nil
			})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("Render() error = %v, want unknown format", err)
	}
}

func TestProgressLabel(t *testing.T) {
	got := ProgressLabel(2, 5)
	if !strings.HasSuffix(got, "2/5 habits completed") {
		t.Errorf("ProgressLabel() = %q", got)
	}
	if !strings.Contains(got, "Today's Progress:") {
		t.Errorf("ProgressLabel() = %q, missing label", got)
	}
}
