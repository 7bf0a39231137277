package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/tui/styles"
)

// RenderPanel frames body with a titled border; focused panels use the
// primary colour
func RenderPanel(title, body string, width int, focused bool) string {
	titleStyle := styles.StylePanelTitle
	panelStyle := styles.StylePanel
	if focused {
		titleStyle = styles.StylePanelTitleFocused
		panelStyle = styles.StylePanelFocused
	}
	// Border and padding take four columns.
	return panelStyle.Width(max(width-4, 10)).Render(titleStyle.Render(title) + "\n" + body)
}

// RenderDeviceList renders numbered device rows with their rated power
func RenderDeviceList(devices []models.EnergyDevice, width int) string {
	var b strings.Builder

	for i, d := range devices {
		// Status icon
		statusIcon := "○"
		statusStyle := styles.StyleStatusOff
		nameStyle := styles.StyleTextMuted
		if d.On {
			statusIcon = "●"
			statusStyle = styles.StyleStatusOn
			nameStyle = styles.StyleValue
		}

		row := fmt.Sprintf("%s %s %s",
			styles.StyleHelpKey.Render(fmt.Sprint(i+1)),
			statusStyle.Render(statusIcon),
			nameStyle.Render(truncate(d.Name, width-14)))
		power := styles.StyleLabel.Render(fmt.Sprintf("%4d W", d.PowerW))

		// Pad to align power
		padding := width - lipgloss.Width(row) - lipgloss.Width(power)
		if padding > 0 {
			row += strings.Repeat(" ", padding)
		}
		b.WriteString(row + power)
		if i < len(devices)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderSwatch renders a coloured block with the colour's hex code
func RenderSwatch(c models.RGB) string {
	hex := c.HexString()
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("◆◆") + " " + styles.StyleLabel.Render(hex)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
