// Package cli provides styled terminal output and interactive prompting for
// the tbank commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD23F"))

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	// ErrorStyle formats errors or failure messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	// SubtleStyle formats less prominent text such as identifiers and
	// timestamps.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	// AmountStyle formats money values.
	AmountStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1D3"))

	// PromptStyle formats interactive input prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A8DADC"))
)
