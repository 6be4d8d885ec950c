package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Use these rather than inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: type names, owners, domains.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "added" and "ok" step outcomes.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "rejected" step outcome.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for the "removed" step outcome.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for the "failed" step outcome (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (type names, owners, domains).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles step verbs (add, remove, get, has).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (prefixes, separators, interface markers).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Step outcome constants.
const (
	StatusAdded    = "added"
	StatusRejected = "rejected"
	StatusRemoved  = "removed"
	StatusFound    = "found"
	StatusMissing  = "missing"
	StatusOK       = "ok"
	StatusFailed   = "failed"
)

// StatusStyle returns the lipgloss style for a step outcome.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusAdded, StatusOK, StatusFound:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusRejected:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusMissing:
		return lipgloss.NewStyle().Faint(true)
	case StatusRemoved:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minStepColumnWidth keeps status words aligned across step lines.
const minStepColumnWidth = 40

// FormatStepLine renders one scenario step with a right-aligned, color-coded
// outcome.
//
// Format: s:<action> <Type>  <status>
func FormatStepLine(action, typeName, status string) string {
	body := fmt.Sprintf("%s %s", action, typeName)

	padding := minStepColumnWidth - len(body)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("s:")
	styled := StyleAction.Render(action) + " " + StyleNoun.Render(typeName)
	return prefix + styled + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
