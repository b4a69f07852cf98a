// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the datachat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant answers as terminal markdown. The
// renderer is rebuilt on resize because word wrap is baked into it.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	enabled  bool
}

// NewMarkdownRenderer creates a renderer wrapping at the given width. When
// markdown is disabled in config, Render passes text through untouched.
func NewMarkdownRenderer(width int, enabled bool) *MarkdownRenderer {
	mr := &MarkdownRenderer{enabled: enabled}
	mr.SetWidth(width)
	return mr
}

// SetWidth rebuilds the underlying renderer for a new wrap width.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	mr.width = width
	if !mr.enabled {
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		// Fall back to plain text rendering.
		mr.renderer = nil
		return
	}
	mr.renderer = r
}

// Render renders markdown to styled terminal output. Any failure falls
// back to plain text with fenced code blocks still highlighted, so an
// answer is never lost to a rendering bug.
func (mr *MarkdownRenderer) Render(text string) string {
	if !mr.enabled || mr.renderer == nil {
		return ParseCodeBlocks(text, mr.width)
	}

	out, err := mr.renderer.Render(text)
	if err != nil {
		return ParseCodeBlocks(text, mr.width)
	}

	// Glamour pads with blank lines top and bottom; the transcript
	// supplies its own spacing.
	return strings.Trim(out, "\n")
}
