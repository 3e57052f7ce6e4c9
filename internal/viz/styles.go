package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/balloonar/internal/status"
)

var (
	GlassPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff4d6d"))

	StartButton = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#007bff")).
			Padding(1, 4)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// BannerStyle colours a status banner with the theme's level colour.
func BannerStyle(t Theme, l status.Level) lipgloss.Style {
	c := t.Info
	switch l {
	case status.Success:
		c = t.Success
	case status.Error:
		c = t.Error
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// CapacityBar shows how full the registry is. It turns red near capacity,
// where loud frames stop spawning.
func CapacityBar(live, max, width int) string {
	if max <= 0 {
		max = 1
	}
	percent := float64(live) / float64(max)
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent >= 1 {
		return SparkLow.Render(bar)
	} else if percent > 0.6 {
		return SparkMid.Render(bar)
	}
	return SparkHigh.Render(bar)
}

// LoudnessSparkline renders recent loudness on a fixed 0-255 scale,
// highlighting samples above threshold.
func LoudnessSparkline(values []float64, threshold float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var result strings.Builder
	for _, v := range values {
		idx := int(v / 256 * float64(len(chars)))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}

		c := string(chars[idx])
		if v > threshold {
			result.WriteString(SparkHigh.Render(c))
		} else {
			result.WriteString(Subtle.Render(c))
		}
	}

	return result.String()
}
