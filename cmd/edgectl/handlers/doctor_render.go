package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

func printHeader(title string) {
	fmt.Println(titleStyle.Render("  " + title))
	fmt.Println(dimStyle.Render("  " + strings.Repeat("═", len(title))))
	fmt.Println()
}

func printRow(name string, ok bool, extra string) {
	indicator := greenStyle.Render("ok  ")
	if !ok {
		indicator = redStyle.Render("FAIL")
	}

	if extra != "" {
		fmt.Printf("  %s  %-20s %s\n", indicator, name, dimStyle.Render(extra))
	} else {
		fmt.Printf("  %s  %s\n", indicator, name)
	}
}
