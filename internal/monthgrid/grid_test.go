package monthgrid

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_AlignsToWeekday(t *testing.T) {
	tests := []struct {
		name      string
		month     time.Time
		weeks     int
		firstSlot int
		lastDay   int
	}{
		{"starts on sunday", time.Date(2025, time.June, 17, 0, 0, 0, 0, time.UTC), 5, 0, 30},
		{"starts on saturday", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 6, 6, 31},
		{"february fits four weeks", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), 4, 0, 28},
		{"leap year", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 5, 4, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.month, nil, 0)
			require.Len(t, g.Weeks, tt.weeks)
			assert.Equal(t, 1, g.Weeks[0][tt.firstSlot].Day)
			for i := 0; i < tt.firstSlot; i++ {
				assert.True(t, g.Weeks[0][i].Empty())
			}

			last := 0
			for _, week := range g.Weeks {
				for _, c := range week {
					if c.Day > last {
						last = c.Day
					}
				}
			}
			assert.Equal(t, tt.lastDay, last)
		})
	}
}

func TestBuild_Counts(t *testing.T) {
	counts := map[string]int{"2025-06-02": 2, "2025-07-01": 5}
	g := Build(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), counts, 3)

	c := g.Weeks[0][1]
	assert.Equal(t, 2, c.Day)
	assert.Equal(t, "2025-06-02", c.Date)
	assert.Equal(t, 2, c.Count)
	assert.Equal(t, " 2 2/3", g.Label(c))
	assert.Equal(t, " 1", g.Label(g.Weeks[0][0]))
	assert.Equal(t, "", g.Label(Cell{}))
}

func TestRender(t *testing.T) {
	gold := goldie.New(t)

	tests := []struct {
		name   string
		month  time.Time
		counts map[string]int
		total  int
	}{
		{
			name:   "june_2025",
			month:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			counts: map[string]int{"2025-06-01": 1, "2025-06-02": 2, "2025-06-15": 2},
			total:  2,
		},
		{
			name:  "march_2025_empty",
			month: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.month, tt.counts, tt.total)
			gold.Assert(t, tt.name, []byte(g.Render(nil)))
		})
	}
}

func TestRender_StylesDayCells(t *testing.T) {
	g := Build(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), nil, 0)
	styled := 0
	out := g.Render(func(c Cell, text string) string {
		styled++
		if c.Date == "2025-06-15" {
			return "[" + text + "]"
		}
		return text
	})

	assert.Equal(t, 30, styled)
	assert.Contains(t, out, "[15 ]")
}
