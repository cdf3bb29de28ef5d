package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/johanforsgren/stashreview/internal/domain"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	warningColor   = lipgloss.Color("#F59E0B")
	mutedColor     = lipgloss.Color("#6B7280")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	AuthorStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	LocationStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	DiffAddStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	DiffDeleteStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	DiffContextStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)
)

func GetDiffLineStyle(t domain.IssueType) lipgloss.Style {
	switch t {
	case domain.IssueTypeAdded:
		return DiffAddStyle
	case domain.IssueTypeRemoved:
		return DiffDeleteStyle
	default:
		return DiffContextStyle
	}
}
