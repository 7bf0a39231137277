package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/camp-tui/internal/tui/styles"
)

// RenderBrightnessBar renders a brightness bar of the given width
func RenderBrightnessBar(brightness int, on bool, width int) string {
	if width <= 0 {
		return ""
	}
	if !on {
		// All empty when off
		return styles.StyleBrightnessBarEmpty.Render(strings.Repeat("─", width))
	}

	segments := filled(brightness, width)

	var b strings.Builder
	for i := 1; i <= width; i++ {
		if i <= segments {
			color := styles.GetBrightnessColor(segmentDecile(i, width), brightness)
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
		} else {
			b.WriteString(styles.StyleBrightnessBarEmpty.Render("─"))
		}
	}
	return b.String()
}

// RenderBatteryBar renders the state of charge coloured by severity
func RenderBatteryBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	segments := filled(percent, width)
	fill := lipgloss.NewStyle().Foreground(styles.BatteryColor(percent))
	return fill.Render(strings.Repeat("█", segments)) +
		styles.StyleBrightnessBarEmpty.Render(strings.Repeat("─", width-segments))
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the last width values scaled between their min and max
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return styles.StyleSparkline.Render(b.String())
}

// filled maps a percentage to a segment count; any non-zero value shows
// at least one segment
func filled(percent, width int) int {
	percent = min(100, max(0, percent))
	segments := percent * width / 100
	if percent > 0 && segments == 0 {
		segments = 1
	}
	return segments
}

// segmentDecile maps segment to the 1-10 brightness colour scale
func segmentDecile(segment, total int) int {
	return min(10, max(1, segment*10/total))
}
