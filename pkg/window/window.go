// Package window provides sliding-time-window event storage keyed by
// (guild, subject, category). It is pure in-memory state with no policy:
// the automod classifiers decide what a count means.
package window

import (
	"strings"
	"sync"
	"time"
)

// Category names an independent sliding-window stream for a subject
type Category string

const (
	CategorySpam            Category = "spam"
	CategoryJoin            Category = "join"
	CategoryChannelMutation Category = "channel_mutation"
	CategoryRoleMutation    Category = "role_mutation"
)

// entry is one timestamped observation
type entry struct {
	ts      time.Time
	payload string
}

// bucket holds the live entries for one key. Its mutex serializes the
// evict-count-append sequence for that key; disjoint keys never share it.
type bucket struct {
	mu      sync.Mutex
	entries []entry
}

// Store is the sliding-window store. The outer lock only guards the key map;
// every operation on a key's data runs under that key's own bucket lock.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
}

// NewStore creates an empty sliding-window store
func NewStore() *Store {
	return &Store{
		buckets: make(map[string]*bucket),
	}
}

func storeKey(guildID, subjectID string, category Category) string {
	var b strings.Builder
	b.Grow(len(guildID) + len(subjectID) + len(category) + 2)
	b.WriteString(guildID)
	b.WriteByte(':')
	b.WriteString(subjectID)
	b.WriteByte(':')
	b.WriteString(string(category))
	return b.String()
}

// getBucket returns the bucket for a key, creating it when asked to
func (s *Store) getBucket(key string, create bool) *bucket {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok || !create {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buckets[key]; ok {
		return b
	}
	b = &bucket{}
	s.buckets[key] = b
	return b
}

// evict drops entries older than now-window. Caller holds the bucket lock.
func (b *bucket) evict(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(b.entries) && b.entries[i].ts.Before(cutoff) {
		i++
	}
	if i > 0 {
		b.entries = append(b.entries[:0], b.entries[i:]...)
	}
}

// Record appends an observation at ts, evicts expired entries and returns the
// live count, all under one bucket lock. Out-of-order timestamps are inserted
// in place so entries stay in non-decreasing order.
func (s *Store) Record(guildID, subjectID string, category Category, ts time.Time, payload string, window time.Duration) int {
	b := s.getBucket(storeKey(guildID, subjectID, category), true)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.evict(ts, window)

	e := entry{ts: ts, payload: payload}
	n := len(b.entries)
	if n == 0 || !ts.Before(b.entries[n-1].ts) {
		b.entries = append(b.entries, e)
	} else {
		// Redelivered or reordered event: walk back to its slot
		pos := n
		for pos > 0 && ts.Before(b.entries[pos-1].ts) {
			pos--
		}
		b.entries = append(b.entries, entry{})
		copy(b.entries[pos+1:], b.entries[pos:])
		b.entries[pos] = e
	}

	return len(b.entries)
}

// Count evicts expired entries relative to now and returns the live count
func (s *Store) Count(guildID, subjectID string, category Category, now time.Time, window time.Duration) int {
	b := s.getBucket(storeKey(guildID, subjectID, category), false)
	if b == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.evict(now, window)
	return len(b.entries)
}

// Snapshot evicts expired entries relative to now and returns the surviving
// payloads in timestamp order
func (s *Store) Snapshot(guildID, subjectID string, category Category, now time.Time, window time.Duration) []string {
	b := s.getBucket(storeKey(guildID, subjectID, category), false)
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.evict(now, window)
	payloads := make([]string, len(b.entries))
	for i, e := range b.entries {
		payloads[i] = e.payload
	}
	return payloads
}

// Clear empties one key
func (s *Store) Clear(guildID, subjectID string, category Category) {
	b := s.getBucket(storeKey(guildID, subjectID, category), false)
	if b == nil {
		return
	}

	b.mu.Lock()
	b.entries = nil
	b.mu.Unlock()
}

// Keys returns the number of tracked keys
func (s *Store) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}

// Sweep drops every entry older than maxAge and removes empty keys, so
// subjects that went quiet do not accumulate forever. maxAge must be at
// least as large as the biggest configured category window.
func (s *Store) Sweep(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, b := range s.buckets {
		b.mu.Lock()
		b.evict(now, maxAge)
		empty := len(b.entries) == 0
		b.mu.Unlock()

		if empty {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}
