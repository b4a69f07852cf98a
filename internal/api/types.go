// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the datachat backend.
package api

import "time"

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success payload of POST /auth/login.
type LoginResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// =============================================================================
// HISTORIES
// =============================================================================

// Summary is one entry of GET /chat/histories, ordered by recency.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// History is the payload of GET /chat/history/{id}.
type History struct {
	ChatID    string          `json:"chat_id"`
	ChatTitle string          `json:"chat_title"`
	Messages  []HistoryRecord `json:"messages"`
}

// HistoryRecord is one stored exchange: the user's query paired with the
// agent's answer. The record id is what feedback attaches to.
type HistoryRecord struct {
	ID        string       `json:"id"`
	User      string       `json:"user"`
	Agent     AgentPayload `json:"agent"`
	Timestamp time.Time    `json:"timestamp"`
	Feedback  string       `json:"feedback,omitempty"`
}

// AgentPayload carries the agent's textual answer and optional result set.
type AgentPayload struct {
	Response string    `json:"response"`
	Data     AgentData `json:"data"`
}

// AgentData wraps the tabular result rows of a data query.
type AgentData struct {
	Result []map[string]any `json:"result"`
}

// =============================================================================
// QUERY
// =============================================================================

// QueryRequest is the body of POST /chat/query. ChatID is null for the
// first message of a brand-new conversation.
type QueryRequest struct {
	Query  string  `json:"query"`
	ChatID *string `json:"chat_id"`
}

// QueryResponse is the success payload of POST /chat/query. For a new
// conversation ChatID is the id the backend just allocated; the client
// re-fetches the conversation under that id to pick up the answer.
type QueryResponse struct {
	ChatID string `json:"chat_id"`
}

// =============================================================================
// FEEDBACK
// =============================================================================

// FeedbackRequest is the body of POST /chat/feedback.
type FeedbackRequest struct {
	MessageID string `json:"message_id"`
	Feedback  string `json:"feedback"`
}
