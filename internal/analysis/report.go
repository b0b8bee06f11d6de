package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Markdown renders a compact report of the statistics.
func (s *Stats) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Recipes: %d\n\n", s.Rows))

	c := s.Calories
	b.WriteString("[CALORIE STATISTICS]\n")
	b.WriteString(fmt.Sprintf("- count %d, mean %s, std %s\n", c.Count, num(c.Mean), num(c.Std)))
	b.WriteString(fmt.Sprintf("- min %s, 25%% %s, 50%% %s, 75%% %s, max %s\n",
		num(c.Min), num(c.Q1), num(c.Median), num(c.Q3), num(c.Max)))
	b.WriteString(fmt.Sprintf("- 95th percentile: %s\n", num(s.P95)))
	b.WriteString(fmt.Sprintf("- 99th percentile: %s\n", num(s.P99)))
	b.WriteString(fmt.Sprintf("- outliers (>%s cal, P%.0f): %d recipes\n", num(s.ClipValue), s.ClipPercentile*100, s.Outliers))
	if s.RobustThreshold > 0 {
		b.WriteString(fmt.Sprintf("- robust outliers (|z|>%.1f, MAD): %d recipes\n", s.RobustThreshold, s.RobustOutliers))
	}

	r := s.AvgRating
	b.WriteString("\n[RATING STATISTICS]\n")
	b.WriteString(fmt.Sprintf("- count %d, mean %s, std %s\n", r.Count, num2(r.Mean), num2(r.Std)))
	b.WriteString(fmt.Sprintf("- min %s, 50%% %s, max %s\n", num2(r.Min), num2(r.Median), num2(r.Max)))

	if len(s.RatingCounts) > 0 {
		b.WriteString("\n[RATING DISTRIBUTION]\n")
		header := []string{"Rating", "Recipes", "Share"}
		rows := make([][]string, 0, len(s.RatingCounts))
		for _, rc := range s.RatingCounts {
			rows = append(rows, []string{
				fmt.Sprintf("%.2f", rc.Rating),
				fmt.Sprintf("%d", rc.Count),
				fmt.Sprintf("%.1f%%", pct(rc.Count, s.Rows)),
			})
		}
		writeTable(&b, header, rows)
	}

	b.WriteString("\n[IMBALANCE SUMMARY]\n")
	b.WriteString(fmt.Sprintf("- high-rated (≥ %.1f): %d (%.1f%%)\n", s.HighRating, s.HighRated, s.HighRatedPct))
	b.WriteString(fmt.Sprintf("- lower-rated (< %.1f): %d (%.1f%%)\n", s.HighRating, s.Rows-s.HighRated, 100-s.HighRatedPct))

	var notes []string
	if s.MissingCalorie > 0 {
		notes = append(notes, fmt.Sprintf("%d recipes have no calorie value", s.MissingCalorie))
	}
	if s.MissingRating > 0 {
		notes = append(notes, fmt.Sprintf("%d recipes have no average rating", s.MissingRating))
	}
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// writeTable writes a Markdown table with cells padded to display width.
func writeTable(b *strings.Builder, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	line := func(cells []string, right bool) {
		b.WriteString("|")
		for i, cell := range cells {
			b.WriteString(" ")
			if right && i > 0 {
				b.WriteString(runewidth.FillLeft(cell, widths[i]))
			} else {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	line(header, false)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	line(sep, false)
	for _, r := range rows {
		line(r, true)
	}
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", v)
}

func num2(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
