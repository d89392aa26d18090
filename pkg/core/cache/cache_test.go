package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](Config{MaxItems: 4, TTL: time.Hour})
	defer c.Close()

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v, want alpha, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) found a value")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit and 1 miss", stats)
	}
	if stats.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", stats.HitRate)
	}
}

func TestExpiration(t *testing.T) {
	c := New[int](Config{MaxItems: 4})
	defer c.Close()

	c.SetWithTTL("short", 1, time.Nanosecond)
	c.Set("forever", 2)
	time.Sleep(time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry was returned")
	}
	if v, ok := c.Get("forever"); !ok || v != 2 {
		t.Errorf("Get(forever) = %d, %v, want 2, true", v, ok)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestEvictsOldest(t *testing.T) {
	c := New[int](Config{MaxItems: 2})
	defer c.Close()

	c.Set("first", 1)
	time.Sleep(time.Millisecond)
	c.Set("second", 2)
	time.Sleep(time.Millisecond)
	c.Set("third", 3)

	if _, ok := c.Get("first"); ok {
		t.Error("oldest entry was not evicted")
	}
	for _, key := range []string{"second", "third"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Get(%s) missing after eviction", key)
		}
	}

	// replacing an existing key never evicts
	c.Set("third", 33)
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestGetOrSet(t *testing.T) {
	c := New[string](Config{})
	defer c.Close()

	calls := 0
	fn := func() (string, error) {
		calls++
		return "computed", nil
	}
	for i := 0; i < 2; i++ {
		v, err := c.GetOrSet("k", fn)
		if err != nil || v != "computed" {
			t.Fatalf("GetOrSet() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet("other", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrSet() error = %v, want %v", err, boom)
	}
	if _, ok := c.Get("other"); ok {
		t.Error("failed computation was cached")
	}
}

func TestClearAndDelete(t *testing.T) {
	c := New[int](Config{CleanupInterval: time.Millisecond})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if c.Size() != 1 {
		t.Errorf("Size() after Delete = %d, want 1", c.Size())
	}
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", c.Size())
	}
	c.Close()
	c.Close()
}

func TestKey(t *testing.T) {
	a := Key("GET", "https://example.com")
	if len(a) != 64 {
		t.Errorf("len(Key) = %d, want 64", len(a))
	}
	if a != Key("GET", "https://example.com") {
		t.Error("Key is not deterministic")
	}
	if a == Key("GET", "https://example.org") {
		t.Error("different inputs produced the same key")
	}
}
