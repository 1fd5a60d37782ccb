// Package views renders gymctl pages to a terminal.
package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	priceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w)
}

func note(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf(format, args...)))
}

// Success prints a confirmation line
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error line
func Error(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// Price formats a decimal price string in rupees
func Price(amount string) string {
	return "₹" + amount
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
