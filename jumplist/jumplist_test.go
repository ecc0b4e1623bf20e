package jumplist

import "testing"

func TestBackForwardRoundTrip(t *testing.T) {
	l := NewList(100)
	a := Location{Kind: LocationEpub, Path: "book.epub", Chapter: "ch01.xhtml", Node: 1}
	b := Location{Kind: LocationEpub, Path: "book.epub", Chapter: "ch02.xhtml", Node: 5}

	l.Push(a)
	current := b

	dest, ok := l.Back(current)
	if !ok || dest != a {
		t.Fatalf("expected Back to return %v, got %v (ok=%v)", a, dest, ok)
	}

	dest2, ok := l.Forward(dest)
	if !ok || dest2 != current {
		t.Fatalf("expected Forward to return %v, got %v (ok=%v)", current, dest2, ok)
	}
}

func TestPushTruncatesForwardHistory(t *testing.T) {
	l := NewList(100)
	a := Location{Chapter: "ch01.xhtml"}
	b := Location{Chapter: "ch02.xhtml"}
	c := Location{Chapter: "ch03.xhtml"}

	l.Push(a)
	_, _ = l.Back(b)
	l.Push(c)

	if _, ok := l.Forward(c); ok {
		t.Fatal("expected forward history to be cleared by Push")
	}
}

func TestBackAtStartIsNoop(t *testing.T) {
	l := NewList(10)
	if _, ok := l.Back(Location{}); ok {
		t.Fatal("expected Back on empty list to report ok=false")
	}
}

func TestCapacityIsBounded(t *testing.T) {
	l := NewList(2)
	l.Push(Location{Node: 1})
	l.Push(Location{Node: 2})
	l.Push(Location{Node: 3})

	if got := l.Len(); got != 2 {
		t.Fatalf("expected capacity-bounded length 2, got %d", got)
	}
}

func TestClear(t *testing.T) {
	l := NewList(10)
	l.Push(Location{Node: 1})
	l.Clear()
	if got := l.Len(); got != 0 {
		t.Fatalf("expected empty list after Clear, got len %d", got)
	}
}
