// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the datachat TUI.
package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// =============================================================================
// FENCED CODE RENDERING
// =============================================================================

// CodeBlock renders one fenced block from an answer. The backend's agent
// usually echoes the SQL it ran, so answers carry fenced code routinely.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a block with the default width.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{Language: language, Code: code, MaxWidth: 80}
}

// SetMaxWidth clamps the rendered box width.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render highlights the code and wraps it in a bordered box with a
// language badge when the fence named one.
func (c CodeBlock) Render() string {
	code := strings.TrimSpace(c.Code)

	language := c.Language
	if language == "" {
		language = detectLanguage(code)
	}

	var badge string
	if c.Language != "" {
		badge = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Background(styles.OverlayDim).
			Padding(0, 1).
			Bold(true).
			Render(c.Language) + "\n"
	}

	width := c.MaxWidth - 4
	if width < 20 {
		width = 20
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2).
		MaxWidth(width).
		Render(badge + highlightCode(code, language))
}

// ParseCodeBlocks replaces fenced blocks in text with rendered boxes and
// leaves the prose between them untouched. An unclosed trailing fence is
// rendered as if it were closed.
func ParseCodeBlocks(text string, maxWidth int) string {
	var (
		out      []string
		fence    []string
		language string
		inFence  bool
	)

	flush := func() {
		cb := NewCodeBlock(language, strings.Join(fence, "\n"))
		cb.SetMaxWidth(maxWidth)
		out = append(out, cb.Render())
		fence, language = nil, ""
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "```"):
			if inFence {
				flush()
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
			}
			inFence = !inFence
		case inFence:
			fence = append(fence, line)
		default:
			out = append(out, line)
		}
	}
	if inFence && len(fence) > 0 {
		flush()
	}

	return strings.Join(out, "\n")
}

// highlightCode runs chroma over the code, falling back to the plain text
// when the language is unknown or tokenizing fails.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, chromaStyles.Get("monokai"), iterator); err != nil {
		return code
	}
	return buf.String()
}

// detectLanguage guesses the language of unlabeled code.
func detectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
