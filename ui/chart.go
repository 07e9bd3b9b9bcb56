package ui

import (
	"fmt"
	"strings"
	"time"
)

// subBlocks give an area chart cell eighth-height resolution.
var subBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// areaChart renders a history series as a filled area with a Y axis. The
// series is oldest to newest and one sample is interval apart.
//
//	CPU %                                    now: 42.0
//	100│
//	 75│          ████
//	 50│        ████████       ██
//	 25│████████████████████████████████
//	   └────────────────────────────────
//	   -100s                         now
func (s styles) areaChart(data []float64, label string, width, height int, maxVal float64, interval time.Duration) string {
	if height < 2 {
		height = 2
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	axisW := 4 // "100│"
	chartW := width - axisW - 1
	if chartW < 10 {
		chartW = 10
	}
	cols := resampleData(data, chartW)

	var sb strings.Builder
	last := 0.0
	if len(data) > 0 {
		last = data[len(data)-1]
	}
	sb.WriteString(s.title.Render(label))
	sb.WriteString(s.dim.Render(fmt.Sprintf("  now: %.1f", last)))
	sb.WriteString("\n")

	for row := height - 1; row >= 0; row-- {
		yVal := float64(row+1) / float64(height) * maxVal
		sb.WriteString(s.dim.Render(fmt.Sprintf("%3.0f│", yVal)))

		for _, val := range cols {
			filled := val / maxVal * float64(height)
			var ch rune
			switch {
			case filled >= float64(row+1):
				ch = '█'
			case filled <= float64(row):
				ch = ' '
			default:
				idx := int((filled - float64(row)) * 8)
				if idx >= len(subBlocks) {
					idx = len(subBlocks) - 1
				}
				ch = subBlocks[idx]
			}
			if ch == ' ' {
				sb.WriteRune(' ')
			} else {
				sb.WriteString(s.pctColor(val / maxVal * 100).Render(string(ch)))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(s.dim.Render("   └" + strings.Repeat("─", len(cols))))
	sb.WriteString("\n")

	left := "-" + (time.Duration(len(data)) * interval).String()
	right := "now"
	gap := len(cols) - len(left) - len(right) + 1
	if gap < 1 {
		gap = 1
	}
	sb.WriteString(s.dim.Render("   " + left + strings.Repeat(" ", gap) + right))
	return sb.String()
}

// resampleData averages data down to at most targetWidth columns.
func resampleData(data []float64, targetWidth int) []float64 {
	if len(data) <= targetWidth || targetWidth <= 0 {
		return data
	}
	result := make([]float64, targetWidth)
	for i := range result {
		start := i * len(data) / targetWidth
		end := (i + 1) * len(data) / targetWidth
		if end <= start {
			end = start + 1
		}
		sum := 0.0
		for _, v := range data[start:end] {
			sum += v
		}
		result[i] = sum / float64(end-start)
	}
	return result
}

// percentOf converts byte samples into percentages of total.
func percentOf(data []float64, total uint64) []float64 {
	out := make([]float64, len(data))
	if total == 0 {
		return out
	}
	for i, v := range data {
		out[i] = v / float64(total) * 100
	}
	return out
}
