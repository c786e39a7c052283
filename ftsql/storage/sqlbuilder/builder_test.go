package sqlbuilder

import "testing"

func TestQuestionPlaceholders(t *testing.T) {
	b := New(PlaceholderQuestion)
	if got := b.Arg("a"); got != "?1" {
		t.Errorf("expected ?1, got %s", got)
	}
	if got := b.Arg(2); got != "?2" {
		t.Errorf("expected ?2, got %s", got)
	}
	if b.Len() != 2 {
		t.Errorf("expected 2 args, got %d", b.Len())
	}
}

func TestDollarPlaceholdersAfter(t *testing.T) {
	b := NewAfter(PlaceholderDollar, "x")
	if got := b.Arg(10); got != "$2" {
		t.Errorf("expected $2, got %s", got)
	}
	args := b.Args()
	if len(args) != 2 || args[0] != "x" || args[1] != 10 {
		t.Errorf("unexpected args %v", args)
	}
}
