package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/balloonar/internal/startup"
)

// Theme is the palette for one backdrop.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Balloon    lipgloss.Color
	String     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Info       lipgloss.Color
}

var (
	// ThemeSky is used when no stream could be acquired.
	ThemeSky = Theme{
		Name:       "sky",
		Background: lipgloss.Color("#87CEEB"),
		Balloon:    lipgloss.Color("#ff0000"),
		String:     lipgloss.Color("#333333"),
		Text:       lipgloss.Color("#1a1a2e"),
		Muted:      lipgloss.Color("#3d5a6c"),
		Success:    lipgloss.Color("#006400"),
		Error:      lipgloss.Color("#8b0000"),
		Info:       lipgloss.Color("#00008b"),
	}

	// ThemeLive leaves the terminal background alone, standing in for the
	// camera feed.
	ThemeLive = Theme{
		Name:       "live",
		Background: lipgloss.Color(""),
		Balloon:    lipgloss.Color("#ff0000"),
		String:     lipgloss.Color("#888888"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666688"),
		Success:    lipgloss.Color("#00ff88"),
		Error:      lipgloss.Color("#ff4444"),
		Info:       lipgloss.Color("#00ccff"),
	}
)

func ThemeFor(b startup.Backdrop) Theme {
	if b == startup.Live {
		return ThemeLive
	}
	return ThemeSky
}
