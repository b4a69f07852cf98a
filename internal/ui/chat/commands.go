// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the commands that talk to the backend. Each command is
// one user action; none of them retry. Commands capture the client and
// context by value so they stay valid across model copies.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/datachat-tui/internal/api"
)

// loadHistoriesCmd fetches the conversation summary list.
func loadHistoriesCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		summaries, err := client.ListHistories(ctx)
		return HistoriesLoadedMsg{Summaries: summaries, Err: err}
	}
}

// loadConversationCmd fetches one conversation's history. The requested id
// travels with the response so stale answers can be dropped.
func loadConversationCmd(ctx context.Context, client *api.Client, chatID string) tea.Cmd {
	return func() tea.Msg {
		history, err := client.GetHistory(ctx, chatID)
		return ConversationLoadedMsg{RequestedID: chatID, History: history, Err: err}
	}
}

// sendQueryCmd runs the full send sequence in order: submit the query,
// refresh the summary list, reload the conversation under the returned id.
// Sequencing inside one command guarantees the sidebar is current before
// the transcript updates, and that one send maps to one resolution.
func sendQueryCmd(ctx context.Context, client *api.Client, query, chatID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.SendQuery(ctx, query, chatID)
		if err != nil {
			return QueryRoundTripMsg{ChatID: chatID, Err: err}
		}

		summaries, err := client.ListHistories(ctx)
		if err != nil {
			return QueryRoundTripMsg{ChatID: resp.ChatID, Err: err}
		}

		history, err := client.GetHistory(ctx, resp.ChatID)
		if err != nil {
			return QueryRoundTripMsg{ChatID: resp.ChatID, Summaries: summaries, Err: err}
		}

		return QueryRoundTripMsg{
			ChatID:    resp.ChatID,
			Summaries: summaries,
			History:   history,
		}
	}
}

// deleteConversationCmd deletes one conversation.
func deleteConversationCmd(ctx context.Context, client *api.Client, chatID string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteHistory(ctx, chatID)
		return DeleteResultMsg{ChatID: chatID, Err: err}
	}
}

// sendFeedbackCmd submits a rating for one bot message.
func sendFeedbackCmd(ctx context.Context, client *api.Client, messageID, feedback string) tea.Cmd {
	return func() tea.Msg {
		err := client.SendFeedback(ctx, messageID, feedback)
		return FeedbackResultMsg{MessageID: messageID, Feedback: feedback, Err: err}
	}
}
