// Package style holds the colors, icons and text styles shared by the report and the logger.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#8B5CF6")
	Muted  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Bolt    = "⚡"
	Dot     = "●"
)

// Text styles.
var (
	Pass    = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Fail    = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Errored = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	Dim     = lipgloss.NewStyle().Foreground(Muted)
	Title   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)
