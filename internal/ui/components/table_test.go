// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/morganforge/datachat-tui/internal/model"
	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

func TestResultTableEmpty(t *testing.T) {
	rt := NewResultTable(nil, styles.NewTheme())
	if out := rt.Render(); out != "" {
		t.Errorf("Render() of empty rows = %q, want empty string", out)
	}
}

func TestResultTableColumnsAndValues(t *testing.T) {
	rows := []model.Row{
		{"region": "west", "total_sales": float64(1200)},
		{"region": "east", "total_sales": 99.5},
	}
	rt := NewResultTable(rows, styles.NewTheme())
	out := rt.Render()

	// Headers are underscore-expanded and columns sorted alphabetically.
	if !strings.Contains(out, "total sales") {
		t.Errorf("Render() missing expanded header, got:\n%s", out)
	}
	if idx := strings.Index(out, "region"); idx < 0 || idx > strings.Index(out, "total sales") {
		t.Errorf("Render() columns not in sorted order, got:\n%s", out)
	}

	// Whole floats render without a decimal point; fractional keep it.
	if !strings.Contains(out, "1200") || strings.Contains(out, "1200.") {
		t.Errorf("Render() integer-valued float mis-formatted, got:\n%s", out)
	}
	if !strings.Contains(out, "99.5") {
		t.Errorf("Render() fractional float missing, got:\n%s", out)
	}
}

func TestResultTableSparseRows(t *testing.T) {
	rows := []model.Row{
		{"a": "x"},
		{"a": "y", "b": "z"},
	}
	rt := NewResultTable(rows, styles.NewTheme())
	out := rt.Render()

	// The column union covers keys missing from the first row.
	if !strings.Contains(out, "b") {
		t.Errorf("Render() missing column from later row, got:\n%s", out)
	}
}

func TestResultTableTruncatesLongResultSets(t *testing.T) {
	rows := make([]model.Row, maxTableRows+7)
	for i := range rows {
		rows[i] = model.Row{"n": float64(i)}
	}
	rt := NewResultTable(rows, styles.NewTheme())
	out := rt.Render()

	if !strings.Contains(out, "7 more rows") {
		t.Errorf("Render() missing truncation notice, got tail:\n%s", out[max(0, len(out)-200):])
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"whole float", float64(42), "42"},
		{"fraction", 3.25, "3.25"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.in); got != tt.want {
				t.Errorf("formatCell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
