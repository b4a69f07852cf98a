// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/morganforge/datachat-tui/internal/api"
)

// =============================================================================
// SUMMARY TYPE
// =============================================================================

// Summary is a lightweight sidebar entry for a past conversation.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SummariesFromAPI converts backend history listings into summaries.
func SummariesFromAPI(items []api.Summary) []Summary {
	out := make([]Summary, 0, len(items))
	for _, it := range items {
		out = append(out, Summary{ID: it.ID, Title: it.Title, CreatedAt: it.CreatedAt})
	}
	return out
}

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the active conversation: the full ordered message
// list for one chat. It is replaced wholesale whenever a history is
// selected or a send round trip completes.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	Messages  []*Message `json:"messages"`
}

// FromHistory flattens the backend's paired {user, agent} records into the
// ordered user/bot message sequence the view renders. Each record becomes a
// user message followed by a bot message that carries the record id (for
// feedback), the tabular result rows, and any stored rating.
func FromHistory(h *api.History) *Conversation {
	conv := &Conversation{
		ID:       h.ChatID,
		Title:    h.ChatTitle,
		Messages: make([]*Message, 0, len(h.Messages)*2),
	}
	if len(h.Messages) > 0 {
		conv.CreatedAt = h.Messages[0].Timestamp
	}

	for _, rec := range h.Messages {
		user := NewUserMessage(rec.User)
		user.Timestamp = rec.Timestamp

		bot := NewBotMessage(rec.ID, rec.Agent.Response)
		bot.Timestamp = rec.Timestamp
		bot.Feedback = Feedback(rec.Feedback)
		for _, raw := range rec.Agent.Data.Result {
			bot.Data = append(bot.Data, Row(raw))
		}

		conv.Messages = append(conv.Messages, user, bot)
	}

	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AppendExchange optimistically appends a user message and the pending
// "Thinking..." placeholder. Returns the placeholder so the caller can
// resolve or fail it after the round trip.
func (c *Conversation) AppendExchange(query string) *Message {
	pending := NewPendingMessage()
	c.Messages = append(c.Messages, NewUserMessage(query), pending)
	return pending
}

// FailPending marks any pending placeholder as failed. The placeholder
// stays visible; a failed send does not roll the optimistic append back.
func (c *Conversation) FailPending() {
	for _, msg := range c.Messages {
		if msg.Pending {
			msg.Pending = false
			msg.Failed = true
		}
	}
}

// SetFeedback patches exactly one message's feedback field. Returns false
// when the message is unknown or already rated.
func (c *Conversation) SetFeedback(messageID string, fb Feedback) bool {
	for _, msg := range c.Messages {
		if msg.ID == messageID {
			if msg.HasFeedback() {
				return false
			}
			msg.Feedback = fb
			return true
		}
	}
	return false
}

// LastRatable returns the most recent bot message that can still be rated,
// or nil when every bot message is rated, pending, or failed.
func (c *Conversation) LastRatable() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].CanRate() {
			return c.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return c == nil || len(c.Messages) == 0
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c != nil && c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// SIDEBAR GROUPING
// =============================================================================

// Group labels, in display order. Anything older than yesterday lands in
// the last bucket regardless of age; this mirrors the backend UI exactly
// and is not a bug.
const (
	GroupToday     = "Today"
	GroupYesterday = "Yesterday"
	GroupPrevious  = "Previous 7 Days"
)

// SummaryGroup is one dated bucket of the sidebar.
type SummaryGroup struct {
	Label   string
	Entries []Summary
}

// FilterSummaries keeps the summaries whose title contains the term,
// case-insensitively. An empty term keeps everything.
func FilterSummaries(items []Summary, term string) []Summary {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]Summary, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), term) {
			out = append(out, it)
		}
	}
	return out
}

// GroupSummaries partitions summaries into Today / Yesterday / Previous
// 7 Days buckets by comparing the date-only part of CreatedAt against the
// given wall-clock instant. The result is always three groups in display
// order; every input summary lands in exactly one of them.
func GroupSummaries(items []Summary, now time.Time) []SummaryGroup {
	today := dateOnly(now)
	yesterday := dateOnly(now.AddDate(0, 0, -1))

	groups := []SummaryGroup{
		{Label: GroupToday},
		{Label: GroupYesterday},
		{Label: GroupPrevious},
	}

	for _, it := range items {
		switch dateOnly(it.CreatedAt.In(now.Location())) {
		case today:
			groups[0].Entries = append(groups[0].Entries, it)
		case yesterday:
			groups[1].Entries = append(groups[1].Entries, it)
		default:
			groups[2].Entries = append(groups[2].Entries, it)
		}
	}

	return groups
}

// dateOnly truncates a time to its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
