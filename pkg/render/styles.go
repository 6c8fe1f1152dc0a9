package render

import "github.com/charmbracelet/lipgloss"

var (
	PrimaryColor = lipgloss.Color("#A78BFA")
	PassedColor  = lipgloss.Color("#10B981")
	FailedColor  = lipgloss.Color("#F87171")
	MutedColor   = lipgloss.Color("#9CA3AF")
	BorderColor  = lipgloss.Color("#6B7280")
	MatchColor   = lipgloss.Color("#FBBF24")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	SectionHeader = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginTop(1)

	Muted  = lipgloss.NewStyle().Foreground(MutedColor)
	Passed = lipgloss.NewStyle().Foreground(PassedColor)
	Failed = lipgloss.NewStyle().Foreground(FailedColor)

	// Match marks search hits inside rendered text.
	Match = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#111827")).
		Background(MatchColor)

	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().Padding(0, 1)
)
