package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F9DDE"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D29922"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E"))
)

func printHeading(w io.Writer, text string) {
	fmt.Fprintln(w, headingStyle.Render(text))
}

func printSuccess(w io.Writer, text string) {
	fmt.Fprintln(w, successStyle.Render(text))
}

func printWarn(w io.Writer, text string) {
	fmt.Fprintln(w, warnStyle.Render(text))
}

func printError(w io.Writer, text string) {
	fmt.Fprintln(w, errorStyle.Render(text))
}

func printMuted(w io.Writer, text string) {
	fmt.Fprintln(w, mutedStyle.Render(text))
}

// renderTable выводит таблицу с заголовком.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
