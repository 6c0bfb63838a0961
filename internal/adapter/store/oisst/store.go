package oisst

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

// ErrUnavailable is the uniform failure returned when no access engine could
// produce a grid. Callers cannot distinguish causes programmatically, only
// via the wrapped message text.
var ErrUnavailable = errors.New("sst data unavailable")

// Engine is one strategy for opening the remote archive and materializing a
// single day clipped to a bounding box. Each attempt is independent and
// stateless; engines open and close their own sessions within Fetch.
type Engine interface {
	Name() string
	Fetch(ctx context.Context, date time.Time, box domain.BoundingBox) (*domain.Grid, error)
}

// Store fetches daily grids through an ordered list of access engines.
// The first successful engine wins; if all fail, the last error observed is
// surfaced wrapped in ErrUnavailable.
type Store struct {
	engines []Engine
	box     domain.BoundingBox
}

// NewStore creates a store that clips every fetch to the Asia-Pacific box.
func NewStore(engines ...Engine) *Store {
	return &Store{engines: engines, box: domain.AsiaPacific}
}

// DefaultStore wires the production engine order: OPeNDAP bridge first,
// pure-Go subset download second.
func DefaultStore(baseURL string, timeout time.Duration) *Store {
	return NewStore(
		NewDAPEngine(baseURL),
		NewSubsetEngine(baseURL, timeout),
	)
}

// Fetch returns the fully materialized grid for date. No partial state is
// retained across calls; there are no retries beyond the engine list.
func (s *Store) Fetch(ctx context.Context, date time.Time) (*domain.Grid, error) {
	if len(s.engines) == 0 {
		return nil, fmt.Errorf("%w: no access engines configured", ErrUnavailable)
	}

	date = domain.Day(date)

	var lastErr error
	for _, eng := range s.engines {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		grid, err := eng.Fetch(ctx, date, s.box)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", eng.Name(), err)
			continue
		}
		if err := grid.Validate(); err != nil {
			lastErr = fmt.Errorf("%s: invalid grid: %w", eng.Name(), err)
			continue
		}
		return grid, nil
	}

	return nil, fmt.Errorf("%w: all %d access engines failed, last error: %v",
		ErrUnavailable, len(s.engines), lastErr)
}
