// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func TestRenderDisabledPassesProseThrough(t *testing.T) {
	mr := NewMarkdownRenderer(80, false)
	got := mr.Render("plain answer with no fences")
	if got != "plain answer with no fences" {
		t.Errorf("Render = %q", got)
	}
}

func TestRenderDisabledStillHighlightsFences(t *testing.T) {
	mr := NewMarkdownRenderer(80, false)
	text := "The query was:\n```sql\nSELECT region, SUM(total) FROM sales GROUP BY region;\n```"
	got := mr.Render(text)

	if !strings.Contains(got, "The query was:") {
		t.Error("prose around the fence should survive")
	}
	if strings.Contains(got, "```") {
		t.Error("fence markers should be replaced by the rendered block")
	}
	if !strings.Contains(got, "SELECT") {
		t.Error("code content should survive rendering")
	}
}

func TestRenderEnabledStripsPadding(t *testing.T) {
	mr := NewMarkdownRenderer(80, true)
	got := mr.Render("# Heading\n\nBody text.")
	if strings.HasPrefix(got, "\n") || strings.HasSuffix(got, "\n") {
		t.Errorf("rendered output should be trimmed, got %q", got)
	}
	if !strings.Contains(got, "Heading") {
		t.Errorf("heading text missing from %q", got)
	}
}

func TestParseCodeBlocksHandlesUnclosedFence(t *testing.T) {
	got := ParseCodeBlocks("before\n```sql\nSELECT 1;", 80)
	if !strings.Contains(got, "before") {
		t.Error("prose before the fence should survive")
	}
	if !strings.Contains(got, "SELECT 1;") {
		t.Error("unclosed fence content should still render")
	}
}

func TestDetectLanguageFallsBackToEmpty(t *testing.T) {
	if got := detectLanguage(""); got != "" {
		t.Errorf("detectLanguage(empty) = %q", got)
	}
}
