// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat screen: a sidebar of past
// conversations grouped by date, a transcript viewport, and the query
// input. All conversation state lives on the backend; the screen renders
// whatever the last fetch returned and never caches across sessions.
//
// The send path is a strict state machine. A submit moves the screen from
// idle to sending, appends the optimistic user message and placeholder,
// and fires one command that performs the query, the summary refresh, and
// the conversation reload in order. The round trip resolves back to idle
// exactly once, on success or failure. Submits while sending are ignored.
package chat
