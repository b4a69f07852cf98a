// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/morganforge/datachat-tui/internal/api"
	"github.com/morganforge/datachat-tui/internal/model"
	"github.com/morganforge/datachat-tui/internal/session"
	"github.com/morganforge/datachat-tui/internal/ui/components"
	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the send state machine. Sends are serialized: while a
// round trip is in flight, further submits are ignored.
type State int

const (
	StateIdle    State = iota // Ready for input
	StateSending              // Query round trip in flight
)

// focusZone identifies which pane has keyboard focus.
type focusZone int

const (
	focusSidebar focusZone = iota
	focusInput
)

const sidebarWidth = 32

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	// State
	state State
	focus focusZone

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Session
	sess session.Session

	// Sidebar
	summaries   []model.Summary
	visible     []model.Summary // summaries after the search filter
	groups      []model.SummaryGroup
	cursor      int
	searchMode  bool
	searchInput textinput.Model

	// Active conversation
	conversation *model.Conversation
	activeID     string // "" means a new, not-yet-created conversation
	loadingID    string // conversation fetch in flight, for stale drops

	// Delete confirmation modal
	deleteTarget  *model.Summary
	deleteConfirm bool // true when the "Delete" button is highlighted

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	toasts   *components.ToastManager
	markdown *components.MarkdownRenderer

	// Key bindings
	keyMap KeyMap

	// Plumbing
	client *api.Client
	logger *zap.Logger
	ctx    context.Context
}

// New creates a chat model for the given session. The context bounds all
// backend calls; cancelling it on logout abandons in-flight requests.
func New(ctx context.Context, client *api.Client, sess session.Session, theme *styles.Theme, logger *zap.Logger, renderMarkdown bool) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question about your data..."
	input.CharLimit = 4000
	input.Focus()

	search := textinput.New()
	search.Placeholder = "filter conversations"
	search.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		theme:       theme,
		focus:       focusInput,
		sess:        sess,
		input:       input,
		searchInput: search,
		spinner:     sp,
		toasts:      components.NewToastManager(),
		markdown:    components.NewMarkdownRenderer(80, renderMarkdown),
		keyMap:      DefaultKeyMap(),
		client:      client,
		logger:      logger,
		ctx:         ctx,
	}
}

// Init implements tea.Model. The summary list loads immediately on entry.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		loadHistoriesCmd(m.ctx, m.client),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case HistoriesLoadedMsg:
		return m.handleHistoriesLoaded(msg)

	case ConversationLoadedMsg:
		return m.handleConversationLoaded(msg)

	case QueryRoundTripMsg:
		return m.handleQueryRoundTrip(msg)

	case DeleteResultMsg:
		return m.handleDeleteResult(msg)

	case FeedbackResultMsg:
		return m.handleFeedbackResult(msg)
	}

	return m, nil
}

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize recomputes the pane layout.
func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	transcriptWidth := m.transcriptWidth()
	// Header, status bar, input box
	transcriptHeight := msg.Height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(transcriptWidth, transcriptHeight)
		m.ready = true
	} else {
		m.viewport.Width = transcriptWidth
		m.viewport.Height = transcriptHeight
	}

	m.input.Width = transcriptWidth - 4
	m.markdown.SetWidth(transcriptWidth - 2)
	m.refreshTranscript()
	return m, nil
}

// transcriptWidth is the width left of the sidebar.
func (m Model) transcriptWidth() int {
	w := m.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes key presses by mode, modal first.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	if m.deleteTarget != nil {
		return m.handleDeleteModalKey(msg)
	}

	if m.searchMode && m.focus == focusSidebar {
		if handled, next, cmd := m.handleSearchKey(msg); handled {
			return next, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keyMap.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }

	case key.Matches(msg, m.keyMap.SwapFocus):
		m.swapFocus()
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		return m.startNewConversation()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

// handleSidebarKey handles keys while the sidebar has focus.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.selectConversation()

	case key.Matches(msg, m.keyMap.Delete):
		return m.openDeleteModal()

	case key.Matches(msg, m.keyMap.Search):
		m.searchMode = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keyMap.RateUp):
		return m.rateLastAnswer(model.FeedbackPositive)

	case key.Matches(msg, m.keyMap.RateDown):
		return m.rateLastAnswer(model.FeedbackNegative)
	}
	return m, nil
}

// handleInputKey handles keys while the input box has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Submit) {
		return m.submitQuery()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSearchKey handles the sidebar filter field. Returns handled=false
// for keys that should fall through to normal sidebar handling.
func (m Model) handleSearchKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.searchMode = false
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.regroup()
		return true, m, nil

	case key.Matches(msg, m.keyMap.Submit):
		// Keep the filter, return to list navigation.
		m.searchMode = false
		m.searchInput.Blur()
		return true, m, nil

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		return false, m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.regroup()
	return true, m, cmd
}

// handleDeleteModalKey handles the two-phase delete confirmation.
func (m Model) handleDeleteModalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab", "h", "l":
		m.deleteConfirm = !m.deleteConfirm
		return m, nil

	case "esc", "n":
		m.deleteTarget = nil
		m.deleteConfirm = false
		return m, nil

	case "enter":
		if !m.deleteConfirm {
			m.deleteTarget = nil
			return m, nil
		}
		target := m.deleteTarget
		m.deleteTarget = nil
		m.deleteConfirm = false
		return m, deleteConversationCmd(m.ctx, m.client, target.ID)
	}
	return m, nil
}

// swapFocus toggles keyboard focus between sidebar and input.
func (m *Model) swapFocus() {
	if m.focus == focusSidebar {
		m.focus = focusInput
		m.input.Focus()
		m.searchInput.Blur()
	} else {
		m.focus = focusSidebar
		m.input.Blur()
	}
}

// =============================================================================
// USER ACTIONS
// =============================================================================

// startNewConversation clears the transcript so the next send creates a
// fresh conversation on the backend.
func (m Model) startNewConversation() (Model, tea.Cmd) {
	if m.state == StateSending {
		return m, nil
	}
	m.conversation = nil
	m.activeID = ""
	m.loadingID = ""
	m.focus = focusInput
	m.input.Focus()
	m.refreshTranscript()
	return m, nil
}

// selectConversation loads the conversation under the cursor.
func (m Model) selectConversation() (Model, tea.Cmd) {
	if m.state == StateSending {
		return m, nil
	}
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return m, nil
	}

	target := m.visible[m.cursor]
	if target.ID == m.activeID {
		return m, nil
	}

	m.loadingID = target.ID
	return m, loadConversationCmd(m.ctx, m.client, target.ID)
}

// openDeleteModal starts the two-phase delete for the cursor entry.
func (m Model) openDeleteModal() (Model, tea.Cmd) {
	if m.state == StateSending {
		return m, nil
	}
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return m, nil
	}
	target := m.visible[m.cursor]
	m.deleteTarget = &target
	m.deleteConfirm = false
	return m, nil
}

// submitQuery starts the send round trip. The user message and a
// "Thinking..." placeholder are appended optimistically when a
// conversation is already open; for a brand-new conversation the
// transcript appears when the round trip resolves.
func (m Model) submitQuery() (Model, tea.Cmd) {
	if m.state == StateSending {
		return m, nil
	}

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.state = StateSending

	if m.conversation != nil {
		m.conversation.AppendExchange(query)
		m.refreshTranscript()
		m.viewport.GotoBottom()
	}

	m.logger.Info("query submitted", zap.String("chat_id", m.activeID))
	return m, tea.Batch(
		m.spinner.Tick,
		sendQueryCmd(m.ctx, m.client, query, m.activeID),
	)
}

// rateLastAnswer submits feedback for the most recent unrated answer.
func (m Model) rateLastAnswer(fb model.Feedback) (Model, tea.Cmd) {
	if m.conversation == nil || m.state == StateSending {
		return m, nil
	}
	target := m.conversation.LastRatable()
	if target == nil {
		return m, nil
	}
	return m, sendFeedbackCmd(m.ctx, m.client, target.ID, string(fb))
}

// =============================================================================
// RESULT HANDLERS
// =============================================================================

// handleHistoriesLoaded applies a refreshed summary list.
func (m Model) handleHistoriesLoaded(msg HistoriesLoadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("failed to load histories", zap.Error(msg.Err))
		return m.toast(components.NewErrorToast(
			api.UserMessage(msg.Err, "Failed to load conversations.")))
	}

	m.summaries = model.SummariesFromAPI(msg.Summaries)
	m.regroup()
	return m, nil
}

// handleConversationLoaded applies a fetched conversation, dropping stale
// responses for selections the user has already abandoned.
func (m Model) handleConversationLoaded(msg ConversationLoadedMsg) (Model, tea.Cmd) {
	if msg.RequestedID != m.loadingID {
		return m, nil
	}
	m.loadingID = ""

	if msg.Err != nil {
		m.logger.Warn("failed to load conversation",
			zap.String("chat_id", msg.RequestedID), zap.Error(msg.Err))
		return m.toast(components.NewErrorToast(
			api.UserMessage(msg.Err, "Failed to load conversation.")))
	}

	m.conversation = model.FromHistory(msg.History)
	m.activeID = msg.History.ChatID
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, nil
}

// handleQueryRoundTrip resolves the send state machine.
func (m Model) handleQueryRoundTrip(msg QueryRoundTripMsg) (Model, tea.Cmd) {
	m.state = StateIdle

	if msg.Err != nil {
		// The optimistic placeholder stays visible, marked failed.
		if m.conversation != nil {
			m.conversation.FailPending()
			m.refreshTranscript()
		}
		m.logger.Warn("send failed", zap.Error(msg.Err))
		return m.toast(components.NewErrorToast(
			api.UserMessage(msg.Err, "Failed to send message.")))
	}

	// Sidebar first, then transcript; the command guarantees this order.
	m.summaries = model.SummariesFromAPI(msg.Summaries)
	m.regroup()

	m.conversation = model.FromHistory(msg.History)
	m.activeID = msg.ChatID
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, nil
}

// handleDeleteResult applies a delete outcome.
func (m Model) handleDeleteResult(msg DeleteResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("delete failed", zap.String("chat_id", msg.ChatID), zap.Error(msg.Err))
		return m.toast(components.NewErrorToast(
			api.UserMessage(msg.Err, "Failed to delete conversation.")))
	}

	if msg.ChatID == m.activeID {
		m.conversation = nil
		m.activeID = ""
		m.refreshTranscript()
	}

	// Drop the conversation from the sidebar immediately; the refetch only
	// reconciles, so a failed refresh cannot resurrect the deleted entry.
	kept := make([]model.Summary, 0, len(m.summaries))
	for _, s := range m.summaries {
		if s.ID != msg.ChatID {
			kept = append(kept, s)
		}
	}
	m.summaries = kept
	m.regroup()

	next, cmd := m.toast(components.NewSuccessToast("Conversation deleted."))
	return next, tea.Batch(cmd, loadHistoriesCmd(m.ctx, m.client))
}

// handleFeedbackResult patches the rated message on success.
func (m Model) handleFeedbackResult(msg FeedbackResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("feedback failed", zap.String("message_id", msg.MessageID), zap.Error(msg.Err))
		return m.toast(components.NewErrorToast(
			api.UserMessage(msg.Err, "Failed to submit feedback.")))
	}

	if m.conversation != nil {
		m.conversation.SetFeedback(msg.MessageID, model.Feedback(msg.Feedback))
		m.refreshTranscript()
	}
	return m.toast(components.NewSuccessToast("Feedback recorded."))
}

// =============================================================================
// HELPERS
// =============================================================================

// regroup recomputes the filtered, date-bucketed sidebar entries and
// clamps the cursor. The flat visible list is rebuilt from the groups so
// cursor order always matches display order.
func (m *Model) regroup() {
	filtered := model.FilterSummaries(m.summaries, m.searchInput.Value())
	m.groups = groupForDisplay(filtered)
	m.visible = m.visible[:0]
	for _, g := range m.groups {
		m.visible = append(m.visible, g.Entries...)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// toast adds a toast and keeps the tick loop alive.
func (m Model) toast(t components.Toast) (Model, tea.Cmd) {
	m.toasts.AddToast(t)
	return m, components.ToastTickCmd()
}

// Notify pushes a toast onto the screen's stack and keeps its tick loop
// alive. Used by the root model to surface events that happen outside the
// chat screen, like a completed login.
func (m Model) Notify(t components.Toast) (Model, tea.Cmd) {
	return m.toast(t)
}

// Notifications returns the active toast stack, newest first.
func (m Model) Notifications() []components.Toast {
	return m.toasts.GetToasts()
}

// State returns the current send state.
func (m Model) State() State {
	return m.state
}

// ActiveConversationID returns the open conversation's id, empty for a
// new conversation.
func (m Model) ActiveConversationID() string {
	return m.activeID
}
