// Package monthgrid lays out a calendar month as weeks of seven days,
// Sunday first, with each day's completion count.
package monthgrid

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habittracker/internal/constants"
)

// Cell is one slot of the grid. Padding cells before the 1st and after the
// last day have Day == 0.
type Cell struct {
	Day   int
	Date  string
	Count int
}

func (c Cell) Empty() bool {
	return c.Day == 0
}

type Grid struct {
	Month time.Time
	// Total is the number of habits a day can complete
	Total int
	Weeks [][7]Cell
}

// Styler decorates a padded cell label, e.g. with lipgloss
type Styler func(c Cell, text string) string

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Build lays out the month containing month. counts is keyed by YYYY-MM-DD.
func Build(month time.Time, counts map[string]int, total int) Grid {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	days := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	rows := (offset + days + 6) / 7
	g := Grid{Month: first, Total: total, Weeks: make([][7]Cell, rows)}
	for d := 1; d <= days; d++ {
		slot := offset + d - 1
		date := first.AddDate(0, 0, d-1).Format(constants.DateFormat)
		g.Weeks[slot/7][slot%7] = Cell{Day: d, Date: date, Count: counts[date]}
	}
	return g
}

// Title is the month name and year, e.g. "June 2025"
func (g Grid) Title() string {
	return g.Month.Format("January 2006")
}

// Label is the unstyled text of a cell: the day number, plus done/total when
// anything was completed.
func (g Grid) Label(c Cell) string {
	if c.Empty() {
		return ""
	}
	label := fmt.Sprintf("%2d", c.Day)
	if c.Count > 0 {
		label += fmt.Sprintf(" %d/%d", c.Count, g.Total)
	}
	return label
}

// Render returns the grid as text. style may be nil.
func (g Grid) Render(style Styler) string {
	width := len(weekdays[0])
	for _, week := range g.Weeks {
		for _, c := range week {
			if n := len(g.Label(c)); n > width {
				width = n
			}
		}
	}
	lineWidth := 7*width + 6

	var b strings.Builder
	title := g.Title()
	if pad := (lineWidth - len(title)) / 2; pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(title)
	b.WriteString("\n")

	header := make([]string, 7)
	for i, name := range weekdays {
		header[i] = pad(name, width)
	}
	b.WriteString(strings.TrimRight(strings.Join(header, " "), " "))
	b.WriteString("\n")

	for _, week := range g.Weeks {
		row := make([]string, 7)
		for i, c := range week {
			text := pad(g.Label(c), width)
			if style != nil && !c.Empty() {
				text = style(c, text)
			}
			row[i] = text
		}
		b.WriteString(strings.TrimRight(strings.Join(row, " "), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
