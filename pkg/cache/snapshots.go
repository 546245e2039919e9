// Package cache keeps recent enumerations in memory so repeated page
// requests over an unchanged tree skip re-reading every file.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/praetorian-inc/scribe/pkg/enum"
)

// Snapshots memoizes enumeration results for unchanged trees.
// Entries expire after ttl; the least recently used entry is evicted once
// size entries are held.
type Snapshots struct {
	lru    *expirable.LRU[string, *enum.Result]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewSnapshots creates a snapshot cache. A non-positive ttl disables expiry.
func NewSnapshots(size int, ttl time.Duration) *Snapshots {
	if size <= 0 {
		size = 16
	}
	return &Snapshots{lru: expirable.NewLRU[string, *enum.Result](size, nil, ttl)}
}

// Get returns the cached result for key.
func (s *Snapshots) Get(key string) (*enum.Result, bool) {
	res, ok := s.lru.Get(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return res, ok
}

// Add stores res under key.
func (s *Snapshots) Add(key string, res *enum.Result) {
	s.lru.Add(key, res)
}

// Len returns the number of live entries.
func (s *Snapshots) Len() int {
	return s.lru.Len()
}

// Purge drops every entry.
func (s *Snapshots) Purge() {
	s.lru.Purge()
}

// Stats returns hit and miss counts since creation.
func (s *Snapshots) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

var _ enum.RecordCache = (*Snapshots)(nil)
