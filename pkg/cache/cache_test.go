package cache

import (
	"testing"
	"time"
)

func TestSetGetAndExpire(t *testing.T) {
	c := New[string](10, 0)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected no value initially")
	}

	c.Set("k", "hello", 50*time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != "hello" {
		t.Fatalf("expected value 'hello', got %v ok=%v", v, ok)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired value to be gone")
	}
	if c.Len() != 0 {
		t.Fatalf("expected lazy delete to drop the entry, len=%d", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c := New[int](0, 0)
	c.Set("k", 42, time.Second)
	if v, ok := c.Get("k"); !ok || v != 42 {
		t.Fatalf("expected 42 present before delete, got %v ok=%v", v, ok)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected deleted value to be absent")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](2, 0)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Get("a")
	c.Set("c", 3, 0)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive, it was used recently")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestJanitorSweepsExpired(t *testing.T) {
	c := New[bool](0, 10*time.Millisecond)
	defer c.Stop()
	c.Set("gone", true, 5*time.Millisecond)
	c.Set("kept", true, 0)

	deadline := time.Now().Add(time.Second)
	for c.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor did not sweep, len=%d", c.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
	c.Stop()
	c.Stop()
}
