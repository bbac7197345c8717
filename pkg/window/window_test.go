package window

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRecordAndCount(t *testing.T) {
	s := NewStore()
	win := 5 * time.Second

	for i := 0; i < 4; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		got := s.Record("g1", "u1", CategorySpam, ts, "hola", win)
		if got != i+1 {
			t.Errorf("Record() #%d returned %d, want %d", i+1, got, i+1)
		}
	}

	if got := s.Count("g1", "u1", CategorySpam, base.Add(3*time.Second), win); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
}

func TestEvictionLaw(t *testing.T) {
	s := NewStore()
	win := 5 * time.Second

	// N events strictly within the window count as N
	for i := 0; i < 5; i++ {
		s.Record("g1", "u1", CategorySpam, base.Add(time.Duration(i)*time.Second), "x", win)
	}
	if got := s.Count("g1", "u1", CategorySpam, base.Add(4*time.Second), win); got != 5 {
		t.Fatalf("Count() within window = %d, want 5", got)
	}

	// After advancing past the window everything is evicted
	if got := s.Count("g1", "u1", CategorySpam, base.Add(time.Minute), win); got != 0 {
		t.Errorf("Count() after window = %d, want 0", got)
	}
}

func TestPartialEviction(t *testing.T) {
	s := NewStore()
	win := 10 * time.Second

	s.Record("g1", "u1", CategoryJoin, base, "", win)
	s.Record("g1", "u1", CategoryJoin, base.Add(8*time.Second), "", win)

	// First entry is now outside the window, second survives
	if got := s.Count("g1", "u1", CategoryJoin, base.Add(15*time.Second), win); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}

func TestAbsentKeyBehavesAsEmpty(t *testing.T) {
	s := NewStore()

	if got := s.Count("nope", "nadie", CategorySpam, base, time.Second); got != 0 {
		t.Errorf("Count() on absent key = %d, want 0", got)
	}
	if got := s.Snapshot("nope", "nadie", CategorySpam, base, time.Second); got != nil {
		t.Errorf("Snapshot() on absent key = %v, want nil", got)
	}
	// Clear on an absent key must not panic
	s.Clear("nope", "nadie", CategorySpam)
}

func TestSnapshotPayloads(t *testing.T) {
	s := NewStore()
	win := time.Minute

	s.Record("g1", "u1", CategorySpam, base, "uno", win)
	s.Record("g1", "u1", CategorySpam, base.Add(time.Second), "dos", win)
	s.Record("g1", "u1", CategorySpam, base.Add(2*time.Second), "tres", win)

	got := s.Snapshot("g1", "u1", CategorySpam, base.Add(2*time.Second), win)
	want := []string{"uno", "dos", "tres"}

	if len(got) != len(want) {
		t.Fatalf("Snapshot() returned %d payloads, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOutOfOrderRecord(t *testing.T) {
	s := NewStore()
	win := time.Minute

	s.Record("g1", "u1", CategorySpam, base.Add(5*time.Second), "tarde", win)
	s.Record("g1", "u1", CategorySpam, base.Add(2*time.Second), "temprano", win)

	got := s.Snapshot("g1", "u1", CategorySpam, base.Add(5*time.Second), win)
	if len(got) != 2 {
		t.Fatalf("Snapshot() returned %d payloads, want 2", len(got))
	}
	if got[0] != "temprano" || got[1] != "tarde" {
		t.Errorf("Snapshot() = %v, entries not in timestamp order", got)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	win := time.Minute

	s.Record("g1", "u1", CategorySpam, base, "x", win)
	s.Record("g1", "u2", CategorySpam, base, "y", win)

	s.Clear("g1", "u1", CategorySpam)

	if got := s.Count("g1", "u1", CategorySpam, base, win); got != 0 {
		t.Errorf("Count() after Clear = %d, want 0", got)
	}
	// Other keys are untouched
	if got := s.Count("g1", "u2", CategorySpam, base, win); got != 1 {
		t.Errorf("Count() on sibling key = %d, want 1", got)
	}
}

func TestKeysAreIsolatedPerCategory(t *testing.T) {
	s := NewStore()
	win := time.Minute

	s.Record("g1", "u1", CategorySpam, base, "", win)
	s.Record("g1", "u1", CategoryJoin, base, "", win)

	if got := s.Count("g1", "u1", CategorySpam, base, win); got != 1 {
		t.Errorf("spam Count() = %d, want 1", got)
	}
	if got := s.Count("g1", "u1", CategoryJoin, base, win); got != 1 {
		t.Errorf("join Count() = %d, want 1", got)
	}
}

func TestSweep(t *testing.T) {
	s := NewStore()
	win := 5 * time.Second

	s.Record("g1", "u1", CategorySpam, base, "x", win)
	s.Record("g1", "u2", CategorySpam, base.Add(30*time.Minute), "y", win)

	if got := s.Keys(); got != 2 {
		t.Fatalf("Keys() = %d, want 2", got)
	}

	removed := s.Sweep(base.Add(31*time.Minute), 10*time.Minute)
	if removed != 1 {
		t.Errorf("Sweep() removed %d keys, want 1", removed)
	}
	if got := s.Keys(); got != 1 {
		t.Errorf("Keys() after Sweep = %d, want 1", got)
	}
}

func TestConcurrentDisjointKeys(t *testing.T) {
	s := NewStore()
	win := time.Minute

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			subject := fmt.Sprintf("u%d", n)
			for j := 0; j < 100; j++ {
				s.Record("g1", subject, CategorySpam, base.Add(time.Duration(j)*time.Millisecond), "m", win)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		subject := fmt.Sprintf("u%d", i)
		if got := s.Count("g1", subject, CategorySpam, base.Add(time.Second), win); got != 100 {
			t.Errorf("Count(%s) = %d, want 100", subject, got)
		}
	}
}

func TestConcurrentSameKey(t *testing.T) {
	s := NewStore()
	win := time.Minute

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Record("g1", "u1", CategoryJoin, base.Add(time.Duration(j)*time.Millisecond), "", win)
			}
		}()
	}
	wg.Wait()

	// No lost updates: every append must be visible
	if got := s.Count("g1", "u1", CategoryJoin, base.Add(time.Second), win); got != 400 {
		t.Errorf("Count() = %d, want 400", got)
	}
}
