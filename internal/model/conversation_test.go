// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/morganforge/datachat-tui/internal/api"
)

func TestFromHistoryFlattensRecords(t *testing.T) {
	ts1 := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	ts2 := time.Date(2026, 8, 27, 9, 5, 0, 0, time.UTC)

	h := &api.History{
		ChatID:    "c1",
		ChatTitle: "sales by region",
		Messages: []api.HistoryRecord{
			{
				ID:        "rec1",
				User:      "totals per region?",
				Agent:     api.AgentPayload{Response: "Here are the totals.", Data: api.AgentData{Result: []map[string]any{{"region": "west", "total": 12.0}}}},
				Timestamp: ts1,
				Feedback:  "positive",
			},
			{
				ID:        "rec2",
				User:      "and for Q2?",
				Agent:     api.AgentPayload{Response: "Q2 below."},
				Timestamp: ts2,
			},
		},
	}

	conv := FromHistory(h)

	if conv.ID != "c1" || conv.Title != "sales by region" {
		t.Fatalf("conversation identity = %q/%q", conv.ID, conv.Title)
	}
	if !conv.CreatedAt.Equal(ts1) {
		t.Errorf("CreatedAt = %v, want first record timestamp %v", conv.CreatedAt, ts1)
	}
	if got := conv.MessageCount(); got != 4 {
		t.Fatalf("MessageCount = %d, want 4", got)
	}

	// Records flatten in order: user then bot, per record.
	if conv.Messages[0].Role != RoleUser || conv.Messages[0].Content != "totals per region?" {
		t.Errorf("message 0 = %s %q", conv.Messages[0].Role, conv.Messages[0].Content)
	}
	bot := conv.Messages[1]
	if bot.Role != RoleBot || bot.ID != "rec1" {
		t.Errorf("message 1 = %s id=%q, want bot rec1", bot.Role, bot.ID)
	}
	if bot.Feedback != FeedbackPositive {
		t.Errorf("message 1 feedback = %q, want positive", bot.Feedback)
	}
	if !bot.HasData() || bot.Data[0]["region"] != "west" {
		t.Errorf("message 1 data = %v", bot.Data)
	}
	if conv.Messages[3].HasFeedback() {
		t.Error("unrated record should have no feedback")
	}
}

func TestAppendExchangeAndFailPending(t *testing.T) {
	conv := &Conversation{ID: "c1"}

	pending := conv.AppendExchange("how many users signed up?")
	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", conv.MessageCount())
	}
	if conv.Messages[0].Role != RoleUser {
		t.Error("first appended message should be the user's")
	}
	if !pending.Pending || pending.Content != ThinkingText {
		t.Errorf("placeholder = %+v", pending)
	}
	if pending.CanRate() {
		t.Error("pending placeholder must not be ratable")
	}

	conv.FailPending()
	if pending.Pending {
		t.Error("FailPending should clear the pending flag")
	}
	if !pending.Failed {
		t.Error("FailPending should set the failed flag")
	}
	if conv.MessageCount() != 2 {
		t.Error("a failed send must not roll the optimistic append back")
	}
	if pending.CanRate() {
		t.Error("failed placeholder must not be ratable")
	}
}

func TestSetFeedbackIsWriteOnce(t *testing.T) {
	conv := &Conversation{Messages: []*Message{NewBotMessage("rec1", "answer")}}

	if !conv.SetFeedback("rec1", FeedbackNegative) {
		t.Fatal("first rating should apply")
	}
	if conv.Messages[0].Feedback != FeedbackNegative {
		t.Errorf("feedback = %q", conv.Messages[0].Feedback)
	}
	if conv.SetFeedback("rec1", FeedbackPositive) {
		t.Error("second rating should be rejected")
	}
	if conv.Messages[0].Feedback != FeedbackNegative {
		t.Error("rejected rating must not overwrite the first")
	}
	if conv.SetFeedback("unknown", FeedbackPositive) {
		t.Error("unknown message id should be rejected")
	}
}

func TestLastRatable(t *testing.T) {
	rated := NewBotMessage("rec1", "first")
	rated.Feedback = FeedbackPositive
	unrated := NewBotMessage("rec2", "second")
	pending := NewPendingMessage()

	conv := &Conversation{Messages: []*Message{
		NewUserMessage("q1"), rated,
		NewUserMessage("q2"), unrated,
		NewUserMessage("q3"), pending,
	}}

	got := conv.LastRatable()
	if got == nil || got.ID != "rec2" {
		t.Fatalf("LastRatable = %v, want rec2", got)
	}

	got.Feedback = FeedbackNegative
	if conv.LastRatable() != nil {
		t.Error("no ratable message should remain")
	}
}

func TestConversationNilSafety(t *testing.T) {
	var conv *Conversation
	if !conv.IsEmpty() {
		t.Error("nil conversation should be empty")
	}
	if got := conv.GetTitle(); got != "New Conversation" {
		t.Errorf("GetTitle = %q", got)
	}
}

func TestFilterSummaries(t *testing.T) {
	items := []Summary{
		{ID: "c1", Title: "sales by region"},
		{ID: "c2", Title: "Top Customers"},
		{ID: "c3", Title: "churn analysis"},
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term keeps everything", "", []string{"c1", "c2", "c3"}},
		{"case insensitive", "CUSTOM", []string{"c2"}},
		{"whitespace trimmed", "  sales  ", []string{"c1"}},
		{"no match", "revenue", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSummaries(items, tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d summaries, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("result[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestGroupSummariesPartitions(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	items := []Summary{
		{ID: "today-late", CreatedAt: now.Add(-1 * time.Minute)},
		{ID: "today-early", CreatedAt: time.Date(2026, 8, 28, 0, 0, 1, 0, time.UTC)},
		{ID: "yesterday", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "last-week", CreatedAt: now.AddDate(0, 0, -6)},
		{ID: "ancient", CreatedAt: now.AddDate(-1, 0, 0)},
	}

	groups := GroupSummaries(items, now)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Label != GroupToday || groups[1].Label != GroupYesterday || groups[2].Label != GroupPrevious {
		t.Fatalf("labels = %s/%s/%s", groups[0].Label, groups[1].Label, groups[2].Label)
	}

	ids := func(g SummaryGroup) []string {
		out := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			out = append(out, e.ID)
		}
		return out
	}

	if got := ids(groups[0]); len(got) != 2 || got[0] != "today-late" || got[1] != "today-early" {
		t.Errorf("Today = %v", got)
	}
	if got := ids(groups[1]); len(got) != 1 || got[0] != "yesterday" {
		t.Errorf("Yesterday = %v", got)
	}
	// Everything older than yesterday shares the last bucket.
	if got := ids(groups[2]); len(got) != 2 || got[0] != "last-week" || got[1] != "ancient" {
		t.Errorf("Previous = %v", got)
	}

	total := 0
	for _, g := range groups {
		total += len(g.Entries)
	}
	if total != len(items) {
		t.Errorf("grouped %d summaries, want %d", total, len(items))
	}
}

func TestGroupSummariesEmptyInput(t *testing.T) {
	groups := GroupSummaries(nil, time.Now())
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3 even when empty", len(groups))
	}
	for _, g := range groups {
		if len(g.Entries) != 0 {
			t.Errorf("group %s should be empty", g.Label)
		}
	}
}
