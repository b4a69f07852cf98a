// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the login view component for the TUI.
package login

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.LoginTitle.Render("datachat"))
	b.WriteString("\n")
	b.WriteString(m.theme.HeaderSubtitle.Render("Sign in to continue"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.LoginLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.LoginLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(m.theme.LoginInProgress.Render(m.spinner.View() + " Signing in..."))
	case m.errMsg != "":
		b.WriteString(styles.RenderError(m.errMsg))
	default:
		b.WriteString(m.theme.LoginHint.Render("enter to sign in, tab to switch fields"))
	}

	box := m.theme.LoginBox.Render(b.String())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
