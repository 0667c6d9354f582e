package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/loomchat/loom/core/protocol"
)

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	modelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))
)

func renderMessage(w io.Writer, msg protocol.Message) {
	switch msg.Role {
	case protocol.RoleUser:
		fmt.Fprintf(w, "%s %s\n", userStyle.Render("you:"), msg.Text)
	default:
		fmt.Fprintf(w, "%s %s\n", modelStyle.Render("ai: "), msg.Text)
	}
}

func renderError(w io.Writer, reason string) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("error:"), reason)
}
