package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/camp-tui/internal/tui/styles"
)

// RenderHeader renders the application header. An empty status is shown
// as a stopped simulation.
func RenderHeader(width int, title, status string) string {
	statusStyle := lipgloss.NewStyle().
		Foreground(styles.ColorSuccess).
		Padding(0, 1)

	if status == "" {
		status = "Stopped"
		statusStyle = statusStyle.Foreground(styles.ColorError)
	}

	left := styles.StyleHeader.Render(" " + title + " ")
	right := statusStyle.Render(status)

	// Calculate spacing
	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}

	headerBg := lipgloss.NewStyle().
		Background(styles.ColorSurface).
		Width(max(width, 0))

	return headerBg.Render(left + strings.Repeat(" ", spacing) + right)
}
