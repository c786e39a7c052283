package ftsql

import "testing"

func TestCacheHitMiss(t *testing.T) {
	c := NewCache(2)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Add("a", "SQL A")
	c.Add("b", "SQL B")
	if v, ok := c.Get("a"); !ok || v != "SQL A" {
		t.Fatalf("expected hit for a, got %q %v", v, ok)
	}

	// a was used last, so adding c evicts b
	c.Add("c", "SQL C")
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(0)
	if c != nil {
		t.Fatal("expected nil cache for size 0")
	}
	c.Add("a", "SQL A")
	if _, ok := c.Get("a"); ok {
		t.Error("disabled cache should never hit")
	}
	if c.Len() != 0 {
		t.Errorf("expected 0 entries, got %d", c.Len())
	}
}
