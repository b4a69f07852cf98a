// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types used by the chat screen.
// Every server interaction resolves to exactly one of these messages, so
// the update loop is the only place UI state changes.
package chat

import (
	"github.com/morganforge/datachat-tui/internal/api"
)

// =============================================================================
// SIDEBAR MESSAGES
// =============================================================================

// HistoriesLoadedMsg carries the refreshed summary list.
type HistoriesLoadedMsg struct {
	Summaries []api.Summary
	Err       error
}

// ConversationLoadedMsg carries one conversation's full history.
// RequestedID identifies which selection triggered the fetch; a response
// for a conversation the user has already navigated away from is dropped.
type ConversationLoadedMsg struct {
	RequestedID string
	History     *api.History
	Err         error
}

// DeleteResultMsg carries the outcome of a delete request.
type DeleteResultMsg struct {
	ChatID string
	Err    error
}

// =============================================================================
// SEND MESSAGES
// =============================================================================

// QueryRoundTripMsg carries the outcome of the full send sequence: submit
// the query, refresh the summary list, then reload the conversation under
// the id the backend returned. The three calls run in order inside one
// command so the sidebar refresh always lands before the transcript reload.
type QueryRoundTripMsg struct {
	ChatID    string
	Summaries []api.Summary
	History   *api.History
	Err       error
}

// =============================================================================
// FEEDBACK MESSAGES
// =============================================================================

// FeedbackResultMsg carries the outcome of a feedback submission.
type FeedbackResultMsg struct {
	MessageID string
	Feedback  string
	Err       error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// LogoutMsg tells the root model to clear the session and return to the
// login screen.
type LogoutMsg struct{}
