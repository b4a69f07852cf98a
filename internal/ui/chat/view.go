// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/datachat-tui/internal/model"
	"github.com/morganforge/datachat-tui/internal/ui/components"
	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// groupForDisplay buckets summaries against the current wall clock.
func groupForDisplay(items []model.Summary) []model.SummaryGroup {
	return model.GroupSummaries(items, time.Now())
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	sidebar := m.renderSidebar()
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)

	screen := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	if m.deleteTarget != nil {
		return m.overlayModal(screen)
	}

	if m.toasts.HasToasts() {
		// Toasts draw over the bottom-right corner.
		stack := components.RenderToastStack(m.toasts.GetToasts(), m.width, m.height)
		if stack != "" {
			return renderOver(screen, stack)
		}
	}

	return screen
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar draws the grouped conversation list.
func (m Model) renderSidebar() string {
	var b strings.Builder

	if m.searchMode || m.searchInput.Value() != "" {
		b.WriteString(m.theme.SidebarSearch.Render(m.searchInput.View()))
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(m.theme.SidebarEmpty.Render("No conversations yet"))
		b.WriteString("\n")
	}

	flatIdx := 0
	for _, group := range m.groups {
		if len(group.Entries) == 0 {
			continue
		}
		b.WriteString(m.theme.SidebarGroupLabel.Render(group.Label))
		b.WriteString("\n")

		for _, entry := range group.Entries {
			title := entry.Title
			if title == "" {
				title = "Untitled"
			}
			if len([]rune(title)) > sidebarWidth-4 {
				title = string([]rune(title)[:sidebarWidth-7]) + "..."
			}

			style := m.theme.SidebarItem
			switch {
			case m.focus == focusSidebar && flatIdx == m.cursor:
				style = m.theme.SidebarItemSelected
			case entry.ID == m.activeID:
				style = m.theme.SidebarItemActive
			}
			b.WriteString(style.Render(title))
			b.WriteString("\n")
			flatIdx++
		}
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.height - 1).
		Render(b.String())
}

// =============================================================================
// MAIN PANE
// =============================================================================

// renderHeader draws the conversation title bar.
func (m Model) renderHeader() string {
	title := m.conversation.GetTitle()
	return m.theme.Header.Width(m.transcriptWidth()).Render(title)
}

// renderInput draws the query input box.
func (m Model) renderInput() string {
	var inner string
	if m.state == StateSending {
		inner = m.theme.ThinkingText.Render(m.spinner.View() + " Waiting for answer...")
	} else {
		inner = m.input.View()
	}
	return m.theme.InputContainer.Width(m.transcriptWidth()).Render(inner)
}

// renderStatusBar draws the shortcut hints.
func (m Model) renderStatusBar() string {
	var parts []string
	for _, binding := range m.keyMap.ShortHelp() {
		parts = append(parts,
			m.theme.ShortcutKey.Render(binding.Help().Key)+
				" "+m.theme.ShortcutDesc.Render(binding.Help().Desc))
	}
	if m.focus == focusSidebar {
		parts = append(parts, m.theme.ShortcutDesc.Render("(+/- rate, d delete)"))
	}
	return m.theme.StatusBar.Width(m.transcriptWidth()).Render(strings.Join(parts, "  "))
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript rebuilds the viewport content from the conversation.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
}

// renderTranscript renders the ordered message list.
func (m Model) renderTranscript() string {
	if m.conversation.IsEmpty() {
		return m.theme.ThinkingText.Render(
			"Ask a question to start a new conversation.")
	}

	width := m.transcriptWidth() - 2
	ratable := m.conversation.LastRatable()

	var blocks []string
	for _, msg := range m.conversation.Messages {
		blocks = append(blocks, m.renderMessage(msg, width, msg == ratable))
	}
	return strings.Join(blocks, "\n\n")
}

// renderMessage renders one message with its sender line, body, optional
// result table, and feedback state. rateHint marks the one message the
// rating keys currently target.
func (m Model) renderMessage(msg *model.Message, width int, rateHint bool) string {
	var b strings.Builder

	sender := m.theme.MessageSender.Render(msg.Role.DisplayName())
	if !msg.Timestamp.IsZero() {
		sender += "  " + m.theme.MessageTime.Render(msg.Timestamp.Local().Format("15:04"))
	}
	b.WriteString(sender)
	b.WriteString("\n")

	switch {
	case msg.Pending:
		b.WriteString(m.theme.ThinkingText.Render(msg.Content))

	case msg.Failed:
		b.WriteString(m.theme.ErrorStyle.Render("Failed to get a response."))

	case msg.Role == model.RoleBot:
		b.WriteString(m.markdown.Render(msg.Content))
		if msg.HasData() {
			table := components.NewResultTable(msg.Data, m.theme)
			table.SetMaxWidth(width)
			b.WriteString("\n")
			b.WriteString(table.Render())
		}
		if msg.HasFeedback() {
			b.WriteString("\n")
			b.WriteString(styles.RenderSuccess(
				fmt.Sprintf("rated %s", msg.Feedback)))
		} else if rateHint {
			// The hint disappears once the answer is rated.
			b.WriteString("\n")
			b.WriteString(m.theme.FeedbackHint.Render("+ / - to rate this answer"))
		}

	default:
		b.WriteString(msg.Content)
	}

	style := m.bubbleStyle(msg)
	return style.Width(width).Render(b.String())
}

// bubbleStyle picks the bubble border for a message.
func (m Model) bubbleStyle(msg *model.Message) lipgloss.Style {
	switch {
	case msg.Failed:
		return m.theme.FailedBubble
	case msg.Role == model.RoleUser:
		return m.theme.UserBubble
	default:
		return m.theme.BotBubble
	}
}

// =============================================================================
// MODAL
// =============================================================================

// overlayModal centers the delete confirmation over the screen.
func (m Model) overlayModal(_ string) string {
	title := m.deleteTarget.Title
	if title == "" {
		title = "this conversation"
	}

	cancelBtn := m.theme.ModalButton.Render("Cancel")
	deleteBtn := m.theme.ModalButton.Render("Delete")
	if m.deleteConfirm {
		deleteBtn = m.theme.ModalButtonActive.Render("Delete")
	} else {
		cancelBtn = m.theme.ModalButtonActive.Render("Cancel")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ModalTitle.Render("Delete conversation?"),
		"",
		m.theme.ModalBody.Render(fmt.Sprintf("%q will be permanently removed.", title)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cancelBtn, deleteBtn),
	)

	box := m.theme.ModalBox.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderOver draws an overlay canvas on top of a base screen. Lip Gloss
// has no true z-ordering, so rows the overlay occupies replace the base
// rows wholesale; toasts sit at the bottom-right where that is harmless.
func renderOver(base, overlay string) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")
	if len(overlayLines) != len(baseLines) {
		return base
	}
	out := make([]string, len(baseLines))
	for i := range baseLines {
		if strings.TrimSpace(overlayLines[i]) != "" {
			out[i] = overlayLines[i]
		} else {
			out[i] = baseLines[i]
		}
	}
	return strings.Join(out, "\n")
}
