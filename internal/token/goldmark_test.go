package token

import "testing"

func tokenize(t *testing.T, src string) []Event {
	t.Helper()
	return NewGoldmarkTokenizer().Tokenize([]byte(src))
}

func findEvent(events []Event, match func(Event) bool) (Event, bool) {
	for _, ev := range events {
		if match(ev) {
			return ev, true
		}
	}
	return Event{}, false
}

func TestPlainParagraphEvents(t *testing.T) {
	events := tokenize(t, "Hello")
	want := []Event{
		{Kind: KindStart, Tag: TagParagraph},
		{Kind: KindText},
		{Kind: KindEnd, Tag: TagParagraph},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		if events[i].Kind != w.Kind || events[i].Tag != w.Tag {
			t.Errorf("event %d = %s/%s", i, events[i].Kind, events[i].Tag)
		}
	}
	if events[0].Range.Start != 0 || !events[0].Range.IsEmpty() {
		t.Errorf("start range = %v, want zero-length at 0", events[0].Range)
	}
	if events[1].Range.Start != 0 || events[1].Range.End != 5 {
		t.Errorf("text range = %v", events[1].Range)
	}
	if events[2].Range.Start != 5 || !events[2].Range.IsEmpty() {
		t.Errorf("end range = %v, want zero-length at 5", events[2].Range)
	}
}

func TestStrongEventPositions(t *testing.T) {
	events := tokenize(t, "a **b** c")

	start, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindStart && ev.Tag == TagStrong
	})
	if !ok || start.Range.Start != 4 {
		t.Errorf("strong start = %v (found %v), want content start 4", start.Range, ok)
	}
	end, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindEnd && ev.Tag == TagStrong
	})
	if !ok || end.Range.Start != 7 {
		t.Errorf("strong end = %v (found %v), want outer end 7", end.Range, ok)
	}
}

func TestHeadingContentBounds(t *testing.T) {
	events := tokenize(t, "# Title")
	start := events[0]
	if start.Kind != KindStart || start.Tag != TagHeading || start.Level != 1 {
		t.Fatalf("first event = %+v", start)
	}
	if start.Range.Start != 2 {
		t.Errorf("heading content starts at %d, want 2 (past the marker)", start.Range.Start)
	}
	last := events[len(events)-1]
	if last.Kind != KindEnd || last.Range.Start != 7 {
		t.Errorf("heading end = %+v", last)
	}
}

func TestBulletListItemMarkers(t *testing.T) {
	events := tokenize(t, "- one\n- two")

	list := events[0]
	if list.Kind != KindStart || list.Tag != TagList || list.Ordered {
		t.Fatalf("first event = %+v", list)
	}
	if list.Range.Start != 0 {
		t.Errorf("list starts at %d, want line start 0", list.Range.Start)
	}

	var itemStarts []int
	for _, ev := range events {
		if ev.Kind == KindStart && ev.Tag == TagItem {
			itemStarts = append(itemStarts, ev.Range.Start)
		}
	}
	if len(itemStarts) != 2 || itemStarts[0] != 2 || itemStarts[1] != 8 {
		t.Errorf("item starts = %v, want [2 8] (past the markers)", itemStarts)
	}
}

func TestOrderedListStart(t *testing.T) {
	events := tokenize(t, "3. x\n4. y")
	list, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindStart && ev.Tag == TagList
	})
	if !ok || !list.Ordered || list.ListStart != 3 {
		t.Errorf("list = %+v, want ordered with start 3", list)
	}
}

func TestInlineCodeSpan(t *testing.T) {
	events := tokenize(t, "x `y` z")
	code, ok := findEvent(events, func(ev Event) bool { return ev.Kind == KindCode })
	if !ok {
		t.Fatal("no code event")
	}
	if code.Range.Start != 3 || code.Range.End != 4 {
		t.Errorf("inner range = %v", code.Range)
	}
	if code.Outer.Start != 2 || code.Outer.End != 5 {
		t.Errorf("outer range = %v", code.Outer)
	}
	if code.Literal != "y" {
		t.Errorf("literal = %q", code.Literal)
	}
}

func TestFencedCodeBlock(t *testing.T) {
	events := tokenize(t, "```go\nfmt\n```")

	start, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindStart && ev.Tag == TagCodeBlock
	})
	if !ok || start.Fence != "go" {
		t.Fatalf("start = %+v", start)
	}
	if start.Range.Start != 6 {
		t.Errorf("content starts at %d, want 6 (past the fence line)", start.Range.Start)
	}

	text, ok := findEvent(events, func(ev Event) bool { return ev.Kind == KindText })
	if !ok || text.Range.Start != 6 || text.Range.End != 10 {
		t.Errorf("code line = %v", text.Range)
	}

	end, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindEnd && ev.Tag == TagCodeBlock
	})
	if !ok || end.Range.Start != 13 {
		t.Errorf("end = %v, want outer end past the closing fence", end.Range)
	}
}

func TestSoftAndHardBreaks(t *testing.T) {
	events := tokenize(t, "a\nb")
	soft, ok := findEvent(events, func(ev Event) bool { return ev.Kind == KindSoftBreak })
	if !ok || soft.Range.Start != 1 || soft.Range.End != 2 {
		t.Errorf("soft break = %v (found %v)", soft.Range, ok)
	}

	events = tokenize(t, "a  \nb")
	hard, ok := findEvent(events, func(ev Event) bool { return ev.Kind == KindHardBreak })
	if !ok || hard.Range.Start != 1 || hard.Range.End != 4 {
		t.Errorf("hard break = %v (found %v), want trailing spaces plus newline", hard.Range, ok)
	}
}

func TestTaskListMarker(t *testing.T) {
	events := tokenize(t, "- [x] done")
	marker, ok := findEvent(events, func(ev Event) bool { return ev.Kind == KindTaskListMarker })
	if !ok {
		t.Fatal("no task marker event")
	}
	if !marker.Checked {
		t.Error("marker should be checked")
	}
	if marker.Range.Start != 2 || marker.Range.End != 5 {
		t.Errorf("marker range = %v, want [2,5)", marker.Range)
	}
}

func TestHeadingAttributeBlock(t *testing.T) {
	events := tokenize(t, "# Title {#intro}")
	attr, ok := findEvent(events, func(ev Event) bool { return ev.Kind == KindAttribute })
	if !ok {
		t.Fatal("no attribute event")
	}
	if attr.Range.Start != 8 || attr.Range.End != 16 {
		t.Errorf("attribute range = %v, want [8,16)", attr.Range)
	}
	end, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindEnd && ev.Tag == TagHeading
	})
	if !ok || end.Range.Start != 16 {
		t.Errorf("heading end = %v, want past the attribute", end.Range)
	}
}

func TestInlineMathSplitsText(t *testing.T) {
	events := tokenize(t, "a $x+y$ b")

	math, ok := findEvent(events, func(ev Event) bool { return ev.Kind == KindInlineMath })
	if !ok {
		t.Fatal("no math event")
	}
	if math.Range.Start != 2 || math.Range.End != 7 {
		t.Errorf("math range = %v", math.Range)
	}
	if math.Literal != "x+y" {
		t.Errorf("literal = %q", math.Literal)
	}

	var textRanges [][2]int
	for _, ev := range events {
		if ev.Kind == KindText {
			textRanges = append(textRanges, [2]int{ev.Range.Start, ev.Range.End})
		}
	}
	want := [][2]int{{0, 2}, {7, 9}}
	if len(textRanges) != len(want) {
		t.Fatalf("text runs = %v, want %v", textRanges, want)
	}
	for i := range want {
		if textRanges[i] != want[i] {
			t.Errorf("text run %d = %v, want %v", i, textRanges[i], want[i])
		}
	}
}

func TestImageEvents(t *testing.T) {
	events := tokenize(t, "![alt](u.png)")
	start, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindStart && ev.Tag == TagImage
	})
	if !ok || start.Destination != "u.png" {
		t.Fatalf("image start = %+v", start)
	}
	end, ok := findEvent(events, func(ev Event) bool {
		return ev.Kind == KindEnd && ev.Tag == TagImage
	})
	if !ok || end.Range.Start != 13 {
		t.Errorf("image end = %v, want past the closing paren", end.Range)
	}
}

func TestEventsBalancedAndInBounds(t *testing.T) {
	src := "# H\n\npara **b** _i_ `c`\n\n> quote\n\n- [ ] item\n\n```\nx\n```\n\n---\n"
	events := tokenize(t, src)
	if len(events) == 0 {
		t.Fatal("no events")
	}

	open := map[Tag]int{}
	for _, ev := range events {
		if ev.Range.Start < 0 || ev.Range.End > len(src) || ev.Range.Start > ev.Range.End {
			t.Errorf("range %v out of bounds for %s/%s", ev.Range, ev.Kind, ev.Tag)
		}
		switch ev.Kind {
		case KindStart:
			open[ev.Tag]++
		case KindEnd:
			open[ev.Tag]--
			if open[ev.Tag] < 0 {
				t.Errorf("end without start for %s", ev.Tag)
			}
		}
	}
	for tag, n := range open {
		if n != 0 {
			t.Errorf("tag %s left %d unclosed", tag, n)
		}
	}
}
