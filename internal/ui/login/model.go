// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the login view component for the TUI.
//
// The login screen collects credentials, performs the single login call,
// persists the session on success, and hands the session to the root model
// via SessionCreatedMsg. Submission is single-shot: further submits are
// ignored while one is in flight.
package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/morganforge/datachat-tui/internal/api"
	"github.com/morganforge/datachat-tui/internal/session"
	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// LoginResultMsg carries the outcome of the login request.
type LoginResultMsg struct {
	Response *api.LoginResponse
	Err      error
}

// SessionCreatedMsg tells the root model to switch to the chat screen.
type SessionCreatedMsg struct {
	Session session.Session
}

// =============================================================================
// LOGIN MODEL
// =============================================================================

// focusField identifies which input has keyboard focus.
type focusField int

const (
	focusUsername focusField = iota
	focusPassword
)

// Model is the Bubble Tea model for the login view.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	username textinput.Model
	password textinput.Model
	focus    focusField

	spinner    spinner.Model
	submitting bool
	errMsg     string

	client *api.Client
	store  *session.Store
	logger *zap.Logger

	ctx context.Context
}

// New creates a login model. The context bounds the login request so a
// quit mid-login abandons it.
func New(ctx context.Context, client *api.Client, store *session.Store, theme *styles.Theme, logger *zap.Logger) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 128
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		theme:    theme,
		username: username,
		password: password,
		spinner:  sp,
		client:   client,
		store:    store,
		logger:   logger,
		ctx:      ctx,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoginResultMsg:
		return m.handleLoginResult(msg)
	}

	return m.updateInputs(msg)
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.toggleFocus()
		return m, nil

	case "enter":
		return m.submit()
	}

	return m.updateInputs(msg)
}

// toggleFocus moves keyboard focus between the two fields.
func (m *Model) toggleFocus() {
	if m.focus == focusUsername {
		m.focus = focusPassword
		m.username.Blur()
		m.password.Focus()
	} else {
		m.focus = focusUsername
		m.password.Blur()
		m.username.Focus()
	}
}

// submit starts the login request unless one is already in flight or a
// field is empty.
func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.errMsg = "Username and password are required."
		return m, nil
	}

	m.submitting = true
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, m.loginCmd(username, password))
}

// loginCmd performs the login call off the UI goroutine.
func (m Model) loginCmd(username, password string) tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		resp, err := client.Login(ctx, username, password)
		return LoginResultMsg{Response: resp, Err: err}
	}
}

// handleLoginResult resolves the in-flight submission.
func (m Model) handleLoginResult(msg LoginResultMsg) (Model, tea.Cmd) {
	m.submitting = false

	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrAuthFailed) {
			m.errMsg = api.UserMessage(msg.Err, "Login failed. Please try again.")
			// The credentials were wrong: keep the username, clear the
			// password for retyping.
			m.password.SetValue("")
		} else {
			// Transport failure: the credentials may be fine, so the form
			// stays untouched for a retry.
			m.errMsg = api.UserMessage(msg.Err, "Unable to reach the server. Please try again.")
		}
		m.logger.Warn("login failed", zap.Error(msg.Err))
		return m, nil
	}

	sess := session.Session{
		UserID: msg.Response.UserID,
		Token:  msg.Response.AccessToken,
	}

	// Persisted exactly once per successful login. A storage failure is
	// not fatal: the in-memory session still works for this run.
	if err := m.store.Save(sess); err != nil {
		m.logger.Warn("failed to persist session", zap.Error(err))
	}

	m.logger.Info("login succeeded", zap.String("user_id", sess.UserID))
	return m, func() tea.Msg {
		return SessionCreatedMsg{Session: sess}
	}
}

// updateInputs forwards a message to whichever field has focus.
func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submitting reports whether a login request is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// ErrorMessage returns the current inline error text, empty when none.
func (m Model) ErrorMessage() string {
	return m.errMsg
}
