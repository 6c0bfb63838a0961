package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate marks a date outside the selectable window or otherwise
// unusable as a request parameter.
var ErrInvalidDate = errors.New("invalid date")

// ArchiveStart is the first day of the OISST v2 high-resolution record.
var ArchiveStart = time.Date(1981, 9, 1, 0, 0, 0, 0, time.UTC)

// PublicationLagDays is how far behind realtime the archive typically runs.
const PublicationLagDays = 2

// DefaultLagDays is the default selection offset shown to the user; one day
// more conservative than the hard bound so the default usually has data.
const DefaultLagDays = 3

// Day truncates t to midnight UTC. All date keys in the system are
// day-precision.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LatestAvailable returns the newest selectable date as of now.
func LatestAvailable(now time.Time) time.Time {
	return Day(now).AddDate(0, 0, -PublicationLagDays)
}

// DefaultDate returns the date preselected in the picker as of now.
func DefaultDate(now time.Time) time.Time {
	return Day(now).AddDate(0, 0, -DefaultLagDays)
}

// ValidateDate checks that d lies within [ArchiveStart, LatestAvailable(now)].
func ValidateDate(d, now time.Time) error {
	d = Day(d)
	if d.Before(ArchiveStart) {
		return fmt.Errorf("%w: %s is before the archive start %s",
			ErrInvalidDate, d.Format("2006-01-02"), ArchiveStart.Format("2006-01-02"))
	}
	if latest := LatestAvailable(now); d.After(latest) {
		return fmt.Errorf("%w: %s is after the latest published day %s",
			ErrInvalidDate, d.Format("2006-01-02"), latest.Format("2006-01-02"))
	}
	return nil
}

// FormatDateKorean renders d as "2006년 01월 02일" for figure titles.
func FormatDateKorean(d time.Time) string {
	return fmt.Sprintf("%d년 %02d월 %02d일", d.Year(), int(d.Month()), d.Day())
}
