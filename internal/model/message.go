// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// FEEDBACK TYPE
// =============================================================================

// Feedback is a user rating attached to a bot message.
// Write-once from the UI: the rating controls disappear after the first
// successful submission.
type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Valid reports whether the feedback value is one the backend accepts.
func (f Feedback) Valid() bool {
	return f == FeedbackPositive || f == FeedbackNegative
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ThinkingText is the content of the transient placeholder shown while a
// query is in flight. Placeholders are never persisted.
const ThinkingText = "Thinking..."

// Row is a single record of tabular result data attached to a bot message.
// Keys are column names; all rows of one message share the same columns.
type Row map[string]any

// Message represents a single message in a conversation.
type Message struct {
	// Identity. Bot messages carry the backend record id so feedback can
	// be attached; locally created messages use a generated id.
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Tabular result data (bot messages only, may be empty)
	Data []Row `json:"data,omitempty"`

	// Feedback rating (bot messages only)
	Feedback Feedback `json:"feedback,omitempty"`

	// Transient state (not persisted)
	Pending bool `json:"-"` // Placeholder awaiting the backend response
	Failed  bool `json:"-"` // Placeholder left behind by a failed send
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewBotMessage creates a bot message carrying the backend record id.
func NewBotMessage(id, content string) *Message {
	msg := NewMessage(RoleBot, content)
	if id != "" {
		msg.ID = id
	}
	return msg
}

// NewPendingMessage creates the transient "Thinking..." placeholder.
func NewPendingMessage() *Message {
	msg := NewMessage(RoleBot, ThinkingText)
	msg.Pending = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// HasData reports whether the message carries tabular result data.
func (m *Message) HasData() bool {
	return len(m.Data) > 0
}

// HasFeedback reports whether the message has been rated.
func (m *Message) HasFeedback() bool {
	return m.Feedback != FeedbackNone
}

// CanRate reports whether the feedback controls should be offered:
// only settled bot messages that have not been rated yet.
func (m *Message) CanRate() bool {
	return m.Role == RoleBot && !m.Pending && !m.Failed && !m.HasFeedback()
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && len(m.Data) == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique local message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
