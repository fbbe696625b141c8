package cli

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable("NAME", "COUNT")
	tbl.Row("Exercise", "12")
	tbl.Row("Read", "3")

	lines := strings.Split(strings.TrimRight(fmt.Sprint(tbl), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("table has %d lines, want header, rule and 2 rows:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "COUNT") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Trim(lines[1], "─ ") != "" {
		t.Errorf("rule = %q, want only box-drawing dashes", lines[1])
	}

	// columns line up
	col := strings.Index(lines[0], "COUNT")
	if got := strings.Index(lines[2], "12"); got != col {
		t.Errorf("row 1 count at %d, header at %d", got, col)
	}
	if got := strings.Index(lines[3], "3"); got != col {
		t.Errorf("row 2 count at %d, header at %d", got, col)
	}
	for i, line := range lines {
		if strings.ContainsAny(line, "│┌┐└┘") {
			t.Errorf("line %d has a border: %q", i, line)
		}
	}
}
