package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the replay.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Trail  lipgloss.Color
	Axe    lipgloss.Color
	Ground lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemeForge = Theme{
		Name:   "forge",
		Title:  lipgloss.Color("#ff9f43"),
		Trail:  lipgloss.Color("#feca57"),
		Axe:    lipgloss.Color("#ff6b6b"),
		Ground: lipgloss.Color("#8b6b4c"),
		Text:   lipgloss.Color("#fff5eb"),
		Muted:  lipgloss.Color("#8b7b6c"),
		Good:   lipgloss.Color("#5fd068"),
		Warn:   lipgloss.Color("#ffc048"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Title:  lipgloss.Color("#00ff00"),
		Trail:  lipgloss.Color("#00cc00"),
		Axe:    lipgloss.Color("#88ff88"),
		Ground: lipgloss.Color("#005500"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Trail:  lipgloss.Color("#888888"),
		Axe:    lipgloss.Color("#0088ff"),
		Ground: lipgloss.Color("#cccccc"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Good:   lipgloss.Color("#00ff00"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{
		ThemeForge,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
