// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/morganforge/datachat-tui/internal/api"
	"github.com/morganforge/datachat-tui/internal/config"
	"github.com/morganforge/datachat-tui/internal/session"
	"github.com/morganforge/datachat-tui/internal/ui/components"
	"github.com/morganforge/datachat-tui/internal/ui/login"
)

func newTestApp(t *testing.T, sess session.Session) app {
	t.Helper()
	store, err := session.NewStoreWithPath(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("NewStoreWithPath() error = %v", err)
	}
	client := api.NewClient("http://127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newApp(ctx, cancel, client, store, config.Default(), sess, zap.NewNop())
}

func TestAppStartsOnLoginWithoutSession(t *testing.T) {
	a := newTestApp(t, session.Session{})
	if a.screen != screenLogin {
		t.Fatalf("screen = %v, want login", a.screen)
	}
}

func TestAppStartsOnChatWithValidSession(t *testing.T) {
	a := newTestApp(t, session.Session{UserID: "u1", Token: "tok"})
	if a.screen != screenChat {
		t.Fatalf("screen = %v, want chat", a.screen)
	}
}

func TestLoginSuccessShowsSignedInToast(t *testing.T) {
	a := newTestApp(t, session.Session{})

	next, cmd := a.Update(login.SessionCreatedMsg{
		Session: session.Session{UserID: "u1", Token: "tok"},
	})
	a = next.(app)

	if a.screen != screenChat {
		t.Fatalf("screen after login = %v, want chat", a.screen)
	}
	if cmd == nil {
		t.Error("entering chat returned no command")
	}

	toasts := a.chat.Notifications()
	if len(toasts) == 0 {
		t.Fatal("no notification queued after login")
	}
	if toasts[0].Kind != components.ToastKindSuccess {
		t.Errorf("notification kind = %v, want success", toasts[0].Kind)
	}
	if toasts[0].Message != "Signed in." {
		t.Errorf("notification message = %q", toasts[0].Message)
	}
}
