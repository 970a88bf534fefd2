package styles

import "github.com/charmbracelet/lipgloss"

var (
	Primary   = lipgloss.Color("#E84142")
	Secondary = lipgloss.Color("#3C3C3C")
	Success   = lipgloss.Color("#04B575")
	Warning   = lipgloss.Color("#FFCC00")
	Error     = lipgloss.Color("#FF5F56")
	Muted     = lipgloss.Color("#626262")
	White     = lipgloss.Color("#FFFFFF")
	Cyan      = lipgloss.Color("#00CED1")

	KeyTypeColors = map[string]lipgloss.Color{
		"hot":     Warning,
		"custody": Cyan,
	}

	LogLevelColors = map[string]lipgloss.Color{
		"DEBUG": Muted,
		"INFO":  Cyan,
		"WARN":  Warning,
		"ERROR": Error,
		"FATAL": Error,
	}

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Background(Primary).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(White).
				Background(Secondary).
				Padding(0, 1)

	TableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TableSelectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(White).
				Background(Primary).
				Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	HelpBarStyle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1)
)

func colored(colors map[string]lipgloss.Color, name string, fallback lipgloss.Color) lipgloss.Style {
	color, ok := colors[name]
	if !ok {
		color = fallback
	}
	return lipgloss.NewStyle().Foreground(color)
}

// KeyTypeStyle colors a signer by key type.
func KeyTypeStyle(keyType string) lipgloss.Style {
	return colored(KeyTypeColors, keyType, Muted)
}

func LogLevelStyle(level string) lipgloss.Style {
	return colored(LogLevelColors, level, White)
}
