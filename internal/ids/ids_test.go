package ids

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNew_IsCanonicalAndDecodes(t *testing.T) {
	id := New()
	if len(id) != 26 {
		t.Fatalf("len(New()) = %d; want 26", len(id))
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("New() not canonical uppercase: %q", id)
	}
	if _, err := Decode(id); err != nil {
		t.Fatalf("Decode(New()) error: %v", err)
	}
}

func TestGenerator_SameMillisecondStrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return fixed }, nil)

	prev := g.New()
	for i := 0; i < 1000; i++ {
		next := g.New()
		if next <= prev {
			t.Fatalf("ids not increasing at %d: %q <= %q", i, next, prev)
		}
		prev = next
	}
}

func TestGenerator_ClockStepsBackwards(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	g := NewGenerator(func() time.Time { return now }, nil)

	a := g.New()
	now = t0.Add(-time.Hour)
	b := g.New()
	if c, err := Compare(a, b); err != nil || c != -1 {
		t.Fatalf("Compare(a, b) = %d, %v; want -1 even when clock goes backwards", c, err)
	}
}

func TestGenerator_ConcurrentUnique(t *testing.T) {
	g := NewGenerator(nil, nil)
	const workers, per = 8, 250

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*per)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, per)
			for i := 0; i < per; i++ {
				local = append(local, g.New())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Fatalf("expected %d unique ids, got %d", workers*per, len(seen))
	}
}

func TestDecode_Invalid(t *testing.T) {
	cases := []string{
		"",
		"not-a-real-id",
		"01ARZ3NDEKTSV4RRFFQ69G5FA",   // 25 chars
		"01ARZ3NDEKTSV4RRFFQ69G5FAVX", // 27 chars
		"01ARZ3NDEKTSV4RRFFQ69G5FAU",  // U is outside the alphabet
		"8ZZZZZZZZZZZZZZZZZZZZZZZZZ",  // timestamp overflow
		"507f1f77bcf86cd799439011",    // 24-char hex object id
	}
	for _, s := range cases {
		if _, err := Decode(s); !errors.Is(err, ErrInvalidIdentifier) {
			t.Fatalf("Decode(%q) err = %v; want ErrInvalidIdentifier", s, err)
		}
	}
}

func TestCanonical_UppercasesLowercaseInput(t *testing.T) {
	id := New()
	got, err := Canonical(strings.ToLower(id))
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if got != id {
		t.Fatalf("Canonical(lower) = %q; want %q", got, id)
	}
	if _, err := Canonical("nope"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("Canonical(nope) err = %v", err)
	}
}

func TestCompare(t *testing.T) {
	a, b := New(), New()
	if c, err := Compare(a, b); err != nil || c != -1 {
		t.Fatalf("Compare(a, b) = %d, %v; want -1", c, err)
	}
	if c, err := Compare(b, a); err != nil || c != 1 {
		t.Fatalf("Compare(b, a) = %d, %v; want 1", c, err)
	}
	if c, err := Compare(a, a); err != nil || c != 0 {
		t.Fatalf("Compare(a, a) = %d, %v; want 0", c, err)
	}
	if _, err := Compare(a, "bad"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("Compare with bad id err = %v", err)
	}
}
