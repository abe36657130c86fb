package textbuf

import "testing"

func TestInsertDeleteReplace(t *testing.T) {
	b := NewMemoryBuffer(WithContent("hello"))

	b.Insert(5, " world")
	if b.Text() != "hello world" || b.Cursor() != 11 {
		t.Fatalf("after insert: %q cursor %d", b.Text(), b.Cursor())
	}

	b.Delete(0, 6)
	if b.Text() != "world" || b.Cursor() != 0 {
		t.Fatalf("after delete: %q cursor %d", b.Text(), b.Cursor())
	}

	b.Replace(0, 5, "猫")
	if b.Text() != "猫" || b.Cursor() != 1 {
		t.Fatalf("after replace: %q cursor %d", b.Text(), b.Cursor())
	}
}

func TestCharOffsetsNotBytes(t *testing.T) {
	b := NewMemoryBuffer(WithContent("猫ab"))
	if b.LenChars() != 3 {
		t.Fatalf("LenChars = %d, want 3", b.LenChars())
	}
	if got := b.Slice(1, 2); got != "a" {
		t.Errorf("Slice(1,2) = %q", got)
	}
	if r, ok := b.CharAt(0); !ok || r != '猫' {
		t.Errorf("CharAt(0) = %q, %v", r, ok)
	}
}

func TestOutOfRangeMutationsAreNoOps(t *testing.T) {
	b := NewMemoryBuffer(WithContent("abc"))
	rev := b.Revision()

	b.Insert(-1, "x")
	b.Insert(4, "x")
	b.Delete(2, 1)
	b.Delete(9, 12)
	b.Replace(5, 9, "x")

	if b.Text() != "abc" {
		t.Errorf("text = %q", b.Text())
	}
	if b.Revision() != rev {
		t.Error("no-op mutations must not bump the revision")
	}
	if _, ok := b.CharAt(3); ok {
		t.Error("CharAt past end should report absence")
	}
	if got := b.Slice(2, 99); got != "c" {
		t.Errorf("Slice clamps end: %q", got)
	}
}

func TestUndoRedoRestoresCursor(t *testing.T) {
	b := NewMemoryBuffer(WithContent("ab"))
	b.SetCursor(1)
	b.Insert(1, "X")

	if !b.Undo() {
		t.Fatal("undo expected")
	}
	if b.Text() != "ab" || b.Cursor() != 1 {
		t.Fatalf("after undo: %q cursor %d", b.Text(), b.Cursor())
	}

	if !b.Redo() {
		t.Fatal("redo expected")
	}
	if b.Text() != "aXb" || b.Cursor() != 2 {
		t.Fatalf("after redo: %q cursor %d", b.Text(), b.Cursor())
	}
	if b.Redo() {
		t.Error("redo stack should be spent")
	}
}

func TestNewEditDropsRedo(t *testing.T) {
	b := NewMemoryBuffer(WithContent("a"))
	b.Insert(1, "b")
	b.Undo()
	b.Insert(1, "c")
	if b.Redo() {
		t.Error("a fresh edit invalidates the redo stack")
	}
	if b.Text() != "ac" {
		t.Errorf("text = %q", b.Text())
	}
}

func TestUndoStackBounded(t *testing.T) {
	b := NewMemoryBuffer(WithMaxUndoEntries(2))
	b.Insert(0, "a")
	b.Insert(1, "b")
	b.Insert(2, "c")

	undone := 0
	for b.Undo() {
		undone++
	}
	if undone != 2 {
		t.Errorf("undid %d edits, want 2", undone)
	}
	if b.Text() != "a" {
		t.Errorf("text = %q, oldest edit should survive the cap", b.Text())
	}
}

func TestRevisionChangesOnEveryMutation(t *testing.T) {
	b := NewMemoryBuffer(WithContent("ab"))
	prev := b.Revision()
	steps := []func(){
		func() { b.Insert(0, "x") },
		func() { b.Undo() },
		func() { b.Redo() },
		func() { b.SetContent("y") },
	}
	for i, step := range steps {
		step()
		if b.Revision() == prev {
			t.Errorf("step %d did not advance the revision", i)
		}
		prev = b.Revision()
	}
}

func TestSelectionClampAndClear(t *testing.T) {
	b := NewMemoryBuffer(WithContent("abcd"))
	b.SetSelection(NewSelection(1, 99))

	sel, ok := b.Selection()
	if !ok || sel.Anchor != 1 || sel.Head != 4 {
		t.Fatalf("selection = %+v, %v", sel, ok)
	}
	if b.Cursor() != 4 {
		t.Errorf("cursor follows the selection head, got %d", b.Cursor())
	}

	b.Insert(0, "x")
	if _, ok := b.Selection(); ok {
		t.Error("mutations drop the selection")
	}
}

func TestSetContentClearsHistory(t *testing.T) {
	b := NewMemoryBuffer(WithContent("abc"))
	b.SetCursor(3)
	b.Insert(3, "d")
	b.SetContent("xy")

	if b.Undo() {
		t.Error("SetContent clears undo history")
	}
	if b.Cursor() != 2 {
		t.Errorf("cursor clamped to new length, got %d", b.Cursor())
	}
}
