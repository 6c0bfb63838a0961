package oisst

import (
	"fmt"
	"strings"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

// oisstEpoch is the reference the archive has used throughout ("days since
// 1800-01-01 00:00:0.0"), assumed when the time axis carries no readable
// units attribute.
var oisstEpoch = time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)

// parseTimeUnits extracts the epoch from a CF-style "days since <date>"
// units string. Units in any other calendar base are not supported.
func parseTimeUnits(units string) (time.Time, bool) {
	fields := strings.Fields(units)
	if len(fields) < 3 || !strings.EqualFold(fields[0], "days") || !strings.EqualFold(fields[1], "since") {
		return time.Time{}, false
	}
	stamp := fields[2]
	if len(stamp) > 10 {
		stamp = stamp[:10]
	}
	epoch, err := time.Parse("2006-01-02", stamp)
	if err != nil {
		return time.Time{}, false
	}
	return epoch, true
}

// timeIndexFor finds the index whose time value falls on exactly the given
// calendar day. Returns -1 if no slice matches; there is deliberately no
// nearest-neighbor fallback, a missing day means the data is unavailable.
func timeIndexFor(times []float64, epoch, date time.Time) int {
	want := domain.Day(date)
	for i, t := range times {
		day := domain.Day(epoch.Add(time.Duration(t * 24 * float64(time.Hour))))
		if day.Equal(want) {
			return i
		}
	}
	return -1
}

// timeValueFor converts a calendar day to a time-axis value against the
// default epoch.
func timeValueFor(date time.Time) float64 {
	return domain.Day(date).Sub(oisstEpoch).Hours() / 24
}

// indexRange returns the start index and count of axis values lying within
// [lo, hi] inclusive. The axis must be ascending.
func indexRange(axis []float64, lo, hi float64) (int, int, error) {
	start, count := -1, 0
	for i, v := range axis {
		if v < lo || v > hi {
			continue
		}
		if start < 0 {
			start = i
		}
		count++
	}
	if start < 0 || count < 2 {
		return 0, 0, fmt.Errorf("axis has %d values in [%g, %g], need at least 2", count, lo, hi)
	}
	return start, count, nil
}
