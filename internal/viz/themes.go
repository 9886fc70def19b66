package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the sandbox canvas.
type Theme struct {
	Name     string
	Body     lipgloss.Color
	Star     lipgloss.Color
	Selected lipgloss.Color
	Trail    lipgloss.Color
	FieldLow lipgloss.Color
	FieldHi  lipgloss.Color
	Cursor   lipgloss.Color
	Text     lipgloss.Color
}

var (
	ThemeDeep = Theme{
		Name:     "deep",
		Body:     lipgloss.Color("#996600"),
		Star:     lipgloss.Color("#ffe9a8"),
		Selected: lipgloss.Color("#ffffff"),
		Trail:    lipgloss.Color("#8888aa"),
		FieldLow: lipgloss.Color("#2b3a55"),
		FieldHi:  lipgloss.Color("#ff5a36"),
		Cursor:   lipgloss.Color("#00ffff"),
		Text:     lipgloss.Color("#e0e0f0"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Body:     lipgloss.Color("#00cc00"),
		Star:     lipgloss.Color("#88ff88"),
		Selected: lipgloss.Color("#ffff00"),
		Trail:    lipgloss.Color("#005500"),
		FieldLow: lipgloss.Color("#003300"),
		FieldHi:  lipgloss.Color("#00ff00"),
		Cursor:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Body:     lipgloss.Color("#cccccc"),
		Star:     lipgloss.Color("#ffffff"),
		Selected: lipgloss.Color("#0088ff"),
		Trail:    lipgloss.Color("#888888"),
		FieldLow: lipgloss.Color("#333333"),
		FieldHi:  lipgloss.Color("#aaaaaa"),
		Cursor:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Body:     lipgloss.Color("#ff6b6b"),
		Star:     lipgloss.Color("#feca57"),
		Selected: lipgloss.Color("#ff9ff3"),
		Trail:    lipgloss.Color("#8b6b8c"),
		FieldLow: lipgloss.Color("#2d1b2e"),
		FieldHi:  lipgloss.Color("#ffc048"),
		Cursor:   lipgloss.Color("#5fd068"),
		Text:     lipgloss.Color("#fff5f5"),
	}

	Themes = []Theme{
		ThemeDeep,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
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

// NextTheme returns the theme after the named one.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
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
