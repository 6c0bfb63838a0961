// Package cache memoizes fetch outcomes for the lifetime of the process.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/oceanview/asia-sst/internal/domain"
)

// Fetcher retrieves the grid for a calendar date.
type Fetcher interface {
	Fetch(ctx context.Context, date time.Time) (*domain.Grid, error)
}

type outcome struct {
	grid *domain.Grid
	err  error
}

// Memo wraps a Fetcher and returns previously computed outcomes for repeated
// dates without re-issuing network calls. Failures are cached too: retrying
// a bad date within one session just replays the same notice.
//
// The cache is unbounded. The key space is user-driven (one entry
// per distinct date visited) and cleared only by process restart; there is no
// eviction and no invalidation.
type Memo struct {
	next Fetcher

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]outcome
}

// NewMemo creates a memoizing wrapper around next.
func NewMemo(next Fetcher) *Memo {
	return &Memo{
		next:    next,
		entries: make(map[string]outcome),
	}
}

// Fetch returns the cached outcome for the date, computing it on first use.
// Concurrent first requests for the same date share a single attempt.
func (m *Memo) Fetch(ctx context.Context, date time.Time) (*domain.Grid, error) {
	key := domain.Day(date).Format("2006-01-02")

	m.mu.Lock()
	if out, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return out.grid, out.err
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		grid, err := m.next.Fetch(ctx, date)
		if err != nil && ctx.Err() != nil {
			// A canceled request says nothing about the archive; leave the
			// date uncached so the next visit fetches for real.
			return nil, err
		}
		m.mu.Lock()
		m.entries[key] = outcome{grid: grid, err: err}
		m.mu.Unlock()
		return grid, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Grid), nil
}

// Len reports how many distinct dates have been resolved.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
