// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the datachat TUI.
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// =============================================================================
// TOASTS
// =============================================================================

// ToastKind selects the color and indicator of a notification.
type ToastKind int

const (
	ToastKindStatus ToastKind = iota
	ToastKindError
	ToastKindWarning
	ToastKindSuccess
)

// Auto-dismiss durations. Errors linger longest so they can be read.
const (
	DefaultToastDuration = 4 * time.Second
	WarningToastDuration = 6 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// Toast is one non-blocking notification. Toasts stack in the bottom-right
// corner and dismiss themselves; the user keeps working underneath.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

func newToast(kind ToastKind, message string, d time.Duration) Toast {
	return Toast{Message: message, Kind: kind, CreatedAt: time.Now(), Duration: d}
}

// NewErrorToast creates an error toast.
func NewErrorToast(message string) Toast {
	return newToast(ToastKindError, message, ErrorToastDuration)
}

// NewWarningToast creates a warning toast.
func NewWarningToast(message string) Toast {
	return newToast(ToastKindWarning, message, WarningToastDuration)
}

// NewStatusToast creates an informational toast.
func NewStatusToast(message string) Toast {
	return newToast(ToastKindStatus, message, DefaultToastDuration)
}

// NewSuccessToast creates a success toast.
func NewSuccessToast(message string) Toast {
	return newToast(ToastKindSuccess, message, DefaultToastDuration)
}

// IsExpired reports whether the toast has outlived its duration.
func (t Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// MANAGER
// =============================================================================

// maxVisibleToasts caps the stack; older toasts fall off the bottom.
const maxVisibleToasts = 5

// ToastManager owns the active toast stack, newest first. It is only
// touched from the Bubble Tea update loop, so it needs no locking.
type ToastManager struct {
	toasts []Toast
	nextID int
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1}
}

// AddToast pushes a toast onto the stack and returns its assigned id.
func (m *ToastManager) AddToast(t Toast) int {
	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	}
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxVisibleToasts {
		m.toasts = m.toasts[:maxVisibleToasts]
	}
	return t.ID
}

// AddError pushes an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.AddToast(NewErrorToast(message))
}

// AddWarning pushes a warning toast.
func (m *ToastManager) AddWarning(message string) int {
	return m.AddToast(NewWarningToast(message))
}

// AddStatus pushes an informational toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.AddToast(NewStatusToast(message))
}

// AddSuccess pushes a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.AddToast(NewSuccessToast(message))
}

// RemoveToast dismisses a toast by id. Unknown ids are ignored.
func (m *ToastManager) RemoveToast(id int) {
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// TickToasts drops expired toasts and returns what remains. Driven by
// ToastTickCmd while any toast is visible.
func (m *ToastManager) TickToasts() []Toast {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return m.toasts
}

// GetToasts returns a copy of the stack, newest first.
func (m *ToastManager) GetToasts() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// HasToasts reports whether anything is on the stack.
func (m *ToastManager) HasToasts() bool {
	return len(m.toasts) > 0
}

// Clear drops every toast.
func (m *ToastManager) Clear() {
	m.toasts = nil
}

// =============================================================================
// TICKING
// =============================================================================

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// toastAccent returns the border color and status indicator for a kind.
func toastAccent(kind ToastKind) (lipgloss.AdaptiveColor, string) {
	switch kind {
	case ToastKindError:
		return styles.Rose, styles.StatusIndicators.Error
	case ToastKindWarning:
		return styles.Amber, styles.StatusIndicators.Warning
	case ToastKindSuccess:
		return styles.Emerald, styles.StatusIndicators.Success
	default:
		return styles.Cyan, styles.StatusIndicators.Info
	}
}

// RenderToast renders one toast box. Width is the full screen width; the
// box clamps itself to a readable size and wraps long messages.
func RenderToast(t Toast, width int) string {
	boxWidth := 60
	if width > 0 && width-8 < boxWidth {
		boxWidth = width - 8
	}
	if boxWidth < 30 {
		boxWidth = 30
	}

	accent, indicator := toastAccent(t.Kind)

	body := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Render(indicator+" ") +
		lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(boxWidth-8).
			Render(t.Message)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2).
		MaxWidth(boxWidth).
		Render(body)
}

// RenderToastStack renders the stack anchored bottom-right on a canvas of
// the given dimensions. Returns "" when there is nothing to show.
func RenderToastStack(toasts []Toast, width, height int) string {
	if len(toasts) == 0 {
		return ""
	}

	boxes := make([]string, 0, len(toasts))
	for _, t := range toasts {
		boxes = append(boxes, RenderToast(t, width))
	}

	stack := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(lipgloss.JoinVertical(lipgloss.Right, boxes...))

	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, stack)
	}
	return stack
}
