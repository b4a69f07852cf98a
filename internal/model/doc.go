// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and sidebar summaries, plus the pure transformations the chat screen
// needs: flattening backend history records into an ordered user/bot
// message sequence, title filtering, and date bucketing of summaries into
// Today / Yesterday / Previous 7 Days.
//
// The package holds no UI or network state. All mutation happens through
// small explicit methods (AppendExchange, FailPending, SetFeedback) so the
// send state machine in the chat view stays testable.
package model
