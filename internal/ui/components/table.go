// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the datachat TUI.
package components

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/morganforge/datachat-tui/internal/model"
	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// =============================================================================
// RESULT TABLE
// =============================================================================

// maxTableRows caps how many result rows are rendered inline. Large result
// sets would otherwise dominate the transcript.
const maxTableRows = 50

// maxColumnWidth caps individual column width so one long value cannot
// push the table off screen.
const maxColumnWidth = 40

// ResultTable renders tabular query results beneath a bot message.
type ResultTable struct {
	Rows     []model.Row
	MaxWidth int
	theme    *styles.Theme
}

// NewResultTable creates a result table for the given rows.
func NewResultTable(rows []model.Row, theme *styles.Theme) ResultTable {
	return ResultTable{
		Rows:     rows,
		MaxWidth: 80,
		theme:    theme,
	}
}

// SetMaxWidth sets the maximum render width.
func (rt *ResultTable) SetMaxWidth(width int) {
	rt.MaxWidth = width
}

// Render renders the rows as an aligned ASCII table. Column order is the
// sorted key set of the first row, matching how the backend reports
// columns. Header keys have underscores replaced with spaces for display.
func (rt ResultTable) Render() string {
	if len(rt.Rows) == 0 {
		return ""
	}

	columns := columnsOf(rt.Rows)
	if len(columns) == 0 {
		return ""
	}

	shown := rt.Rows
	truncated := false
	if len(shown) > maxTableRows {
		shown = shown[:maxTableRows]
		truncated = true
	}

	// Compute column widths from headers and cells.
	widths := make([]int, len(columns))
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = headerLabel(col)
		widths[i] = runewidth.StringWidth(headers[i])
	}
	cells := make([][]string, len(shown))
	for r, row := range shown {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			cell := formatCell(row[col])
			if runewidth.StringWidth(cell) > maxColumnWidth {
				cell = runewidth.Truncate(cell, maxColumnWidth, "...")
			}
			cells[r][i] = cell
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder

	// Header row
	headerParts := make([]string, len(columns))
	for i, h := range headers {
		headerParts[i] = rt.theme.TableHeader.Render(pad(h, widths[i]))
	}
	b.WriteString(strings.Join(headerParts, "  "))
	b.WriteString("\n")

	// Separator
	sepParts := make([]string, len(columns))
	for i := range columns {
		sepParts[i] = strings.Repeat("-", widths[i])
	}
	b.WriteString(rt.theme.TableBorder.Render(strings.Join(sepParts, "  ")))
	b.WriteString("\n")

	// Data rows
	for r := range cells {
		rowParts := make([]string, len(columns))
		for i, cell := range cells[r] {
			rowParts[i] = rt.theme.TableCell.Render(pad(cell, widths[i]))
		}
		b.WriteString(strings.Join(rowParts, "  "))
		b.WriteString("\n")
	}

	if truncated {
		b.WriteString(rt.theme.TableBorder.Render(
			fmt.Sprintf("... %d more rows", len(rt.Rows)-maxTableRows)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// columnsOf returns the sorted union of keys across all rows, so rows with
// missing fields still line up.
func columnsOf(rows []model.Row) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			seen[key] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

// headerLabel converts a snake_case column key to a display label.
func headerLabel(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// formatCell renders an arbitrary JSON value as a table cell.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; render integers without the
		// trailing ".000000".
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// pad right-pads a cell to the given display width, rune-width aware.
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
