package ui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors tuned for both light and dark terminals.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorOK      = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Padding(0, 1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorDanger).
				Padding(0, 1)

	statusAccentStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorOK)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// entityColors is the cycle order for the color key. The empty name is
// the unset state.
var entityColors = []string{"", "rose", "moss", "sky", "sand", "plum", "teal"}

func nextEntityColor(cur string) string {
	for i, c := range entityColors {
		if c == cur {
			return entityColors[(i+1)%len(entityColors)]
		}
	}
	return entityColors[0]
}
