package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette - lavender theme with campsite accents
var (
	// Primary colors
	ColorPrimary    = lipgloss.Color("#B794F4") // Lavender
	ColorSecondary  = lipgloss.Color("#9F7AEA") // Darker lavender
	ColorAccent     = lipgloss.Color("#E9D8FD") // Light lavender
	ColorBackground = lipgloss.Color("#1A1A2E") // Dark background
	ColorSurface    = lipgloss.Color("#2D2D44") // Surface color
	ColorSurfaceAlt = lipgloss.Color("#3D3D5C") // Alternate surface

	// Text colors
	ColorText        = lipgloss.Color("#FAFAFA") // Primary text
	ColorTextMuted   = lipgloss.Color("#A0A0B0") // Muted text
	ColorTextDim     = lipgloss.Color("#6B6B80") // Dim text
	ColorTextInverse = lipgloss.Color("#1A1A2E") // Inverse text

	// State colors
	ColorSuccess = lipgloss.Color("#68D391") // Green
	ColorWarning = lipgloss.Color("#F6E05E") // Yellow
	ColorError   = lipgloss.Color("#FC8181") // Red
	ColorInfo    = lipgloss.Color("#63B3ED") // Blue

	// Light states
	ColorLightOn  = lipgloss.Color("#FBBF24") // Warm yellow for on
	ColorLightOff = lipgloss.Color("#4A4A5A") // Gray for off

	// Brightness bar colors (gradient from dim to bright)
	ColorBrightness1  = lipgloss.Color("#3D3D5C")
	ColorBrightness2  = lipgloss.Color("#4A4A6A")
	ColorBrightness3  = lipgloss.Color("#5A5A7A")
	ColorBrightness4  = lipgloss.Color("#6A6A8A")
	ColorBrightness5  = lipgloss.Color("#7A7A9A")
	ColorBrightness6  = lipgloss.Color("#8A8AAA")
	ColorBrightness7  = lipgloss.Color("#9A9ABA")
	ColorBrightness8  = lipgloss.Color("#AAAACA")
	ColorBrightness9  = lipgloss.Color("#BABADA")
	ColorBrightness10 = lipgloss.Color("#FBBF24")
)

// Styles for various UI components
var (
	// Header styles
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	// Panel styles
	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSurfaceAlt).
			Padding(0, 1)

	StylePanelFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	StylePanelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	StylePanelTitleFocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorText)

	// Status indicators
	StyleStatusOn = lipgloss.NewStyle().
			Foreground(ColorLightOn).
			Bold(true)

	StyleStatusOff = lipgloss.NewStyle().
			Foreground(ColorLightOff)

	// Brightness bar styles
	StyleBrightnessBarEmpty = lipgloss.NewStyle().
				Foreground(ColorSurfaceAlt)

	StyleSparkline = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// Help styles
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			MarginTop(1)

	StyleHelpKey = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Loading/spinner styles
	StyleSpinner = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Error styles
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Success styles
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// Text muted style
	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Primary style
	StylePrimary = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// GetBrightnessColor returns the appropriate color for a brightness segment
func GetBrightnessColor(segment int, brightness int) lipgloss.Color {
	threshold := segment * 10
	if brightness >= threshold {
		switch segment {
		case 1:
			return ColorBrightness1
		case 2:
			return ColorBrightness2
		case 3:
			return ColorBrightness3
		case 4:
			return ColorBrightness4
		case 5:
			return ColorBrightness5
		case 6:
			return ColorBrightness6
		case 7:
			return ColorBrightness7
		case 8:
			return ColorBrightness8
		case 9:
			return ColorBrightness9
		case 10:
			return ColorBrightness10
		}
	}
	return ColorSurfaceAlt
}

// BatteryColor grades a state of charge: red at or below the autosave
// threshold, yellow below half, green otherwise
func BatteryColor(percent int) lipgloss.Color {
	switch {
	case percent <= 20:
		return ColorError
	case percent < 50:
		return ColorWarning
	}
	return ColorSuccess
}
