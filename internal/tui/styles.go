package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorFg     = lipgloss.Color("#cdd6f4")
	colorFgDim  = lipgloss.Color("#6c7086")
	colorAccent = lipgloss.Color("#89b4fa")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			PaddingLeft(1).
			PaddingBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(colorFgDim).
			Bold(true).
			PaddingLeft(1)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			PaddingLeft(3)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				PaddingLeft(1)

	filterStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			PaddingLeft(1).
			PaddingTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorFgDim).
			PaddingLeft(1).
			PaddingTop(1)
)
