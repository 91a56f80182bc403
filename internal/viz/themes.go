package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the live view.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeSteel = Theme{
		Name:      "steel",
		Primary:   lipgloss.Color("#7aa2c8"),
		Secondary: lipgloss.Color("#c8d3de"),
		Accent:    lipgloss.Color("#e0b860"),
		Text:      lipgloss.Color("#e6e6e6"),
		Muted:     lipgloss.Color("#6b7280"),
		Success:   lipgloss.Color("#5fd38d"),
		Warning:   lipgloss.Color("#f0a030"),
		Error:     lipgloss.Color("#e05555"),
	}

	ThemeHemp = Theme{
		Name:      "hemp",
		Primary:   lipgloss.Color("#c9a66b"),
		Secondary: lipgloss.Color("#8b6f47"),
		Accent:    lipgloss.Color("#e8d5a9"),
		Text:      lipgloss.Color("#f5ecd7"),
		Muted:     lipgloss.Color("#7a6a55"),
		Success:   lipgloss.Color("#a3c46b"),
		Warning:   lipgloss.Color("#e0a040"),
		Error:     lipgloss.Color("#d0604a"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#006600"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#88ff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#aaaaaa"),
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#555555"),
		Success:   lipgloss.Color("#ffffff"),
		Warning:   lipgloss.Color("#aaaaaa"),
		Error:     lipgloss.Color("#ffffff"),
	}
)

var themes = []Theme{ThemeSteel, ThemeHemp, ThemeRetroGreen, ThemeMinimal}

var currentTheme = 0

func CurrentTheme() Theme { return themes[currentTheme] }

// NextTheme cycles to the next theme and returns it.
func NextTheme() Theme {
	currentTheme = (currentTheme + 1) % len(themes)
	return themes[currentTheme]
}

// SetTheme selects a theme by name and reports whether it exists.
func SetTheme(name string) bool {
	for i, t := range themes {
		if t.Name == name {
			currentTheme = i
			return true
		}
	}
	return false
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
