// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the datachat TUI:
// toast notifications, result tables, markdown rendering, and syntax
// highlighted code blocks.
package components
