package tray

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	account   lipgloss.Style
	current   lipgloss.Style
	server    lipgloss.Style
	connected lipgloss.Style
	offline   lipgloss.Style
	empty     lipgloss.Style
	subject   lipgloss.Style
	message   lipgloss.Style
	errorTag  lipgloss.Style
	action    lipgloss.Style
	section   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		current:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		server:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		connected: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		offline:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		empty:     lipgloss.NewStyle().Faint(true),
		subject:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		message:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		errorTag:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		action:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		section:   lipgloss.NewStyle().MarginTop(1),
	}
}
