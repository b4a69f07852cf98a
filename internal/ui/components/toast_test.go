// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestToastManagerAddAndRemove(t *testing.T) {
	m := NewToastManager()

	id := m.AddError("request failed")
	if !m.HasToasts() {
		t.Fatal("HasToasts() = false after AddError")
	}

	m.RemoveToast(id)
	if m.HasToasts() {
		t.Error("HasToasts() = true after RemoveToast")
	}
}

func TestToastManagerNewestFirst(t *testing.T) {
	m := NewToastManager()
	m.AddStatus("first")
	m.AddStatus("second")

	toasts := m.GetToasts()
	if len(toasts) != 2 {
		t.Fatalf("GetToasts() returned %d toasts, want 2", len(toasts))
	}
	if toasts[0].Message != "second" {
		t.Errorf("newest toast = %q, want %q", toasts[0].Message, "second")
	}
}

func TestToastManagerCapsVisibleToasts(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < 10; i++ {
		m.AddStatus("toast")
	}
	if got := len(m.GetToasts()); got != 5 {
		t.Errorf("GetToasts() returned %d toasts, want capped at 5", got)
	}
}

func TestTickToastsDropsExpired(t *testing.T) {
	m := NewToastManager()
	expired := NewStatusToast("old")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	m.AddToast(expired)
	m.AddToast(NewStatusToast("fresh"))

	remaining := m.TickToasts()
	if len(remaining) != 1 || remaining[0].Message != "fresh" {
		t.Errorf("TickToasts() = %+v, want only the fresh toast", remaining)
	}
}

func TestToastDurationsByKind(t *testing.T) {
	if d := NewErrorToast("e").Duration; d != ErrorToastDuration {
		t.Errorf("error toast duration = %v, want %v", d, ErrorToastDuration)
	}
	if d := NewSuccessToast("s").Duration; d != DefaultToastDuration {
		t.Errorf("success toast duration = %v, want %v", d, DefaultToastDuration)
	}
	if d := NewWarningToast("w").Duration; d != WarningToastDuration {
		t.Errorf("warning toast duration = %v, want %v", d, WarningToastDuration)
	}
}

func TestRenderToastIncludesMessageAndIndicator(t *testing.T) {
	toast := NewErrorToast("something broke")
	out := RenderToast(toast, 80)

	if !strings.Contains(out, "something broke") {
		t.Errorf("RenderToast() missing message, got:\n%s", out)
	}
	if !strings.Contains(out, "[X]") {
		t.Errorf("RenderToast() missing error indicator, got:\n%s", out)
	}
}

func TestRenderToastStackEmpty(t *testing.T) {
	if out := RenderToastStack(nil, 80, 24); out != "" {
		t.Errorf("RenderToastStack(nil) = %q, want empty", out)
	}
}
