// Package cache memoizes extraction results keyed by source and date range.
// Entries live until they expire or the caller invalidates them.
package cache

import (
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Sumatoshi-tech/commitlens/pkg/traversal"
)

// Default lifetimes.
const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

const keySeparator = "\x00"

// Key identifies one extraction.
type Key struct {
	Source string
	Since  time.Time
	To     time.Time
}

// KeyFor builds the key of an extraction request. Local paths are cleaned
// so that "repo" and "repo/" share an entry.
func KeyFor(source string, rng traversal.Range) Key {
	return Key{Source: canonicalSource(source), Since: rng.Since.UTC(), To: rng.To.UTC()}
}

func canonicalSource(source string) string {
	source = strings.TrimSpace(source)
	if strings.Contains(source, "://") {
		return strings.TrimSuffix(source, "/")
	}

	return filepath.Clean(source)
}

func (k Key) String() string {
	return strings.Join([]string{k.Source, formatBound(k.Since), formatBound(k.To)}, keySeparator)
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}

// Store holds extraction results.
type Store struct {
	items *gocache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats holds cache counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns the hit rate (0.0 to 1.0).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}

// NewStore creates a store. A ttl <= 0 keeps entries until invalidated.
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	return &Store{items: gocache.New(ttl, cleanupInterval)}
}

// Get returns a copy of the cached result for key.
func (s *Store) Get(key Key) (*traversal.Result, bool) {
	v, found := s.items.Get(key.String())
	if !found {
		s.misses.Add(1)

		return nil, false
	}

	s.hits.Add(1)

	return copyResult(v.(*traversal.Result)), true
}

// peek is Get without touching the counters.
func (s *Store) peek(key Key) (*traversal.Result, bool) {
	v, found := s.items.Get(key.String())
	if !found {
		return nil, false
	}

	return v.(*traversal.Result), true
}

// Put stores a copy of result under key.
func (s *Store) Put(key Key, result *traversal.Result) {
	s.items.SetDefault(key.String(), copyResult(result))
}

// Invalidate drops the entry for key.
func (s *Store) Invalidate(key Key) {
	s.items.Delete(key.String())
}

// InvalidateSource drops every range cached for source and returns how
// many entries were removed.
func (s *Store) InvalidateSource(source string) int {
	prefix := canonicalSource(source) + keySeparator
	removed := 0

	for k := range s.items.Items() {
		if strings.HasPrefix(k, prefix) {
			s.items.Delete(k)
			removed++
		}
	}

	return removed
}

// Flush drops every entry.
func (s *Store) Flush() {
	s.items.Flush()
}

// Stats returns the counters and the live entry count.
func (s *Store) Stats() Stats {
	return Stats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Entries: s.items.ItemCount(),
	}
}

// copyResult keeps callers from appending into cached slices.
func copyResult(r *traversal.Result) *traversal.Result {
	out := *r
	out.Records = slices.Clone(r.Records)
	out.Warnings = slices.Clone(r.Warnings)

	return &out
}
