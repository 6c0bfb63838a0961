package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2023, 7, 18, 14, 30, 0, 0, time.UTC)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{"archive start", time.Date(1981, 9, 1, 0, 0, 0, 0, time.UTC), false},
		{"before archive", time.Date(1981, 8, 31, 0, 0, 0, 0, time.UTC), true},
		{"well inside", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), false},
		{"latest published", time.Date(2023, 7, 16, 0, 0, 0, 0, time.UTC), false},
		{"publication lag", time.Date(2023, 7, 17, 0, 0, 0, 0, time.UTC), true},
		{"future", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.date, testNow)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%s) error = %v, wantErr %v",
					tt.date.Format("2006-01-02"), err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDate) {
				t.Errorf("ValidateDate(%s) error = %v, not marked ErrInvalidDate",
					tt.date.Format("2006-01-02"), err)
			}
		})
	}
}

func TestDateDefaults(t *testing.T) {
	if got := LatestAvailable(testNow); !got.Equal(time.Date(2023, 7, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("LatestAvailable = %v", got)
	}
	if got := DefaultDate(testNow); !got.Equal(time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DefaultDate = %v", got)
	}
}

func TestDay(t *testing.T) {
	d := Day(time.Date(2023, 7, 15, 23, 59, 59, 0, time.UTC))
	if !d.Equal(time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Day = %v", d)
	}
}

func TestFormatDateKorean(t *testing.T) {
	got := FormatDateKorean(time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC))
	if got != "2023년 07월 15일" {
		t.Errorf("FormatDateKorean = %q", got)
	}
}
