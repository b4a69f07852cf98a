// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	"github.com/morganforge/datachat-tui/internal/model"
)

func TestRenderMessageMarksRatedAnswer(t *testing.T) {
	m := newTestModel(t)
	msg := model.NewBotMessage("rec1", "Here are the totals.")
	msg.Feedback = model.FeedbackPositive

	out := m.renderMessage(msg, 60, false)
	if !strings.Contains(out, "rated positive") {
		t.Errorf("rendered message missing rating mark:\n%s", out)
	}
	if !strings.Contains(out, "[OK]") {
		t.Errorf("rating mark missing its indicator:\n%s", out)
	}
}

func TestRenderMessageRateHintOnlyForTarget(t *testing.T) {
	m := newTestModel(t)
	msg := model.NewBotMessage("rec1", "Here are the totals.")

	if out := m.renderMessage(msg, 60, true); !strings.Contains(out, "rate this answer") {
		t.Errorf("target message missing rate hint:\n%s", out)
	}
	if out := m.renderMessage(msg, 60, false); strings.Contains(out, "rate this answer") {
		t.Errorf("non-target message should carry no rate hint:\n%s", out)
	}

	// A rated answer never shows the hint again.
	msg.Feedback = model.FeedbackNegative
	if out := m.renderMessage(msg, 60, true); strings.Contains(out, "rate this answer") {
		t.Errorf("rated message should hide the rate hint:\n%s", out)
	}
}
