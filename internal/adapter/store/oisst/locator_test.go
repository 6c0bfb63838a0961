package oisst

import (
	"strings"
	"testing"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

func TestDODSURLDependsOnlyOnYear(t *testing.T) {
	jan := DODSURL(DefaultBaseURL, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC).Year())
	jul := DODSURL(DefaultBaseURL, time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC).Year())
	dec := DODSURL(DefaultBaseURL, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC).Year())
	if jan != jul || jul != dec {
		t.Fatalf("locators for the same year differ: %q %q %q", jan, jul, dec)
	}
	want := "https://psl.noaa.gov/thredds/dodsC/Datasets/noaa.oisst.v2.highres/sst.day.mean.2023.nc"
	if jul != want {
		t.Errorf("locator = %q, want %q", jul, want)
	}
}

func TestSubsetURL(t *testing.T) {
	date := time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)
	u := SubsetURL(DefaultBaseURL, date, domain.AsiaPacific)
	for _, part := range []string{
		"ncss/grid/Datasets/noaa.oisst.v2.highres/sst.day.mean.2023.nc",
		"var=sst", "north=60", "south=-10", "west=60", "east=150",
		"accept=netcdf", "2023-07-15",
	} {
		if !strings.Contains(u, part) {
			t.Errorf("subset URL %q missing %q", u, part)
		}
	}
}
