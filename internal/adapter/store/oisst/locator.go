// Package oisst fetches daily NOAA OISST v2 high-resolution grids from the
// PSL THREDDS server and clips them to a bounding box.
package oisst

import (
	"fmt"
	"net/url"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

// DefaultBaseURL is the PSL THREDDS root serving the OISST archive.
const DefaultBaseURL = "https://psl.noaa.gov/thredds"

// datasetPath locates the yearly OISST files under the THREDDS root.
const datasetPath = "Datasets/noaa.oisst.v2.highres"

// DatasetFile returns the yearly archive file name. One file serves every
// date within a calendar year; there is no NRT variant.
func DatasetFile(year int) string {
	return fmt.Sprintf("sst.day.mean.%d.nc", year)
}

// DODSURL builds the OPeNDAP locator for a year.
func DODSURL(baseURL string, year int) string {
	return fmt.Sprintf("%s/dodsC/%s/%s", baseURL, datasetPath, DatasetFile(year))
}

// SubsetURL builds a NetcdfSubset request for one day clipped to box,
// returned as a small NetCDF file.
func SubsetURL(baseURL string, date time.Time, box domain.BoundingBox) string {
	q := url.Values{}
	q.Set("var", "sst")
	q.Set("north", fmt.Sprintf("%g", box.LatMax))
	q.Set("south", fmt.Sprintf("%g", box.LatMin))
	q.Set("west", fmt.Sprintf("%g", box.LonMin))
	q.Set("east", fmt.Sprintf("%g", box.LonMax))
	q.Set("time", date.Format("2006-01-02T15:04:05Z"))
	q.Set("accept", "netcdf")
	return fmt.Sprintf("%s/ncss/grid/%s/%s?%s", baseURL, datasetPath, DatasetFile(date.Year()), q.Encode())
}
