package composition

import (
	"testing"
	"time"

	"github.com/dshills/markweave/internal/action"
)

func TestCommitFlow(t *testing.T) {
	m := NewMachine(Config{})
	m.Start(5)
	if !m.IsComposing() {
		t.Fatal("machine should be composing after Start")
	}
	m.Update("ね")
	m.Update("猫")
	c, ok := m.End(time.Now())
	if !ok {
		t.Fatal("End should produce a commit")
	}
	if c.Text != "猫" || c.Offset != 5 {
		t.Errorf("commit = %+v, want 猫 at 5", c)
	}
	if m.State() != Idle {
		t.Errorf("state = %v, want idle", m.State())
	}
}

func TestEmptyPreviewCommitsNothing(t *testing.T) {
	m := NewMachine(Config{})
	m.Start(0)
	if _, ok := m.End(time.Now()); ok {
		t.Error("empty preview should not commit")
	}
}

func TestCancelDiscardsPreview(t *testing.T) {
	m := NewMachine(Config{})
	m.Start(3)
	m.Update("か")
	m.Cancel()
	if m.IsComposing() {
		t.Error("machine should be idle after Cancel")
	}
	if _, ok := m.End(time.Now()); ok {
		t.Error("End after Cancel should not commit")
	}
}

func TestMutationsBlockedWhileComposing(t *testing.T) {
	m := NewMachine(Config{})
	m.Start(0)
	blocked := []action.Kind{
		action.Insert, action.DeleteBackward, action.InsertParagraph,
		action.ToggleBold, action.Undo, action.Paste,
	}
	for _, k := range blocked {
		if !m.ShouldBlock(action.Action{Kind: k}) {
			t.Errorf("%v should be blocked while composing", k)
		}
	}
	passing := []action.Kind{action.MoveCursor, action.ExtendSelection, action.SelectAll, action.Copy}
	for _, k := range passing {
		if m.ShouldBlock(action.Action{Kind: k}) {
			t.Errorf("%v should pass through while composing", k)
		}
	}
	m.Cancel()
	if m.ShouldBlock(action.Action{Kind: action.Insert}) {
		t.Error("nothing should be blocked while idle")
	}
}

func TestDuplicateConfirmSuppressed(t *testing.T) {
	m := NewMachine(Config{})
	m.Start(5)
	m.Update("猫")
	now := time.Now()
	m.End(now)

	if !m.SuppressConfirm("猫", now.Add(100*time.Millisecond)) {
		t.Error("duplicate confirmation inside the window should be suppressed")
	}
	if m.SuppressConfirm("犬", now.Add(100*time.Millisecond)) {
		t.Error("different text should not be suppressed")
	}
	if m.SuppressConfirm("猫", now.Add(2*time.Second)) {
		t.Error("confirmation after the window should not be suppressed")
	}
}

func TestPredictiveFallback(t *testing.T) {
	m := NewMachine(Config{})
	now := time.Now()
	m.ExpectChange(7, now)

	if m.FallbackNeeded(7, now.Add(10*time.Millisecond)) {
		t.Error("fallback should wait for the window to elapse")
	}
	if m.FallbackNeeded(8, now.Add(100*time.Millisecond)) {
		t.Error("a revision change means the mutation happened")
	}

	m.ExpectChange(7, now)
	if !m.FallbackNeeded(7, now.Add(100*time.Millisecond)) {
		t.Error("unchanged revision after the window should trigger fallback")
	}
	if m.FallbackNeeded(7, now.Add(200*time.Millisecond)) {
		t.Error("the pending check is consumed after firing")
	}
}

func TestConfigOverrides(t *testing.T) {
	m := NewMachine(Config{ConfirmSuppress: 10 * time.Millisecond})
	m.Start(0)
	m.Update("x")
	now := time.Now()
	m.End(now)
	if m.SuppressConfirm("x", now.Add(50*time.Millisecond)) {
		t.Error("custom window should apply")
	}
}
