package oisst

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/oceanview/asia-sst/internal/domain"
)

// DAPEngine opens the yearly archive through the netcdf-c OPeNDAP bridge.
// The same engine opens plain file paths, which is how the tests drive it.
type DAPEngine struct {
	// Locate maps a year to an OPeNDAP URL or a local file path.
	Locate func(year int) string
}

// NewDAPEngine creates the bridge engine against a THREDDS base URL.
func NewDAPEngine(baseURL string) *DAPEngine {
	return &DAPEngine{Locate: func(year int) string { return DODSURL(baseURL, year) }}
}

// Name identifies the engine in error messages.
func (e *DAPEngine) Name() string { return "opendap" }

// Fetch opens the archive, matches the exact time slice and reads the boxed
// hyperslab. The remote session is closed before returning; the grid holds
// no lazy references.
func (e *DAPEngine) Fetch(ctx context.Context, date time.Time, box domain.BoundingBox) (*domain.Grid, error) {
	// netcdf-c has no cancellation hook, so the context is only consulted
	// between operations.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc := e.Locate(date.Year())
	ds, err := netcdf.OpenFile(loc, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", loc, err)
	}

	if _, err := ds.Var("sst"); err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("variable 'sst' not found in %s", loc)
	}

	tv, err := ds.Var("time")
	if err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("failed to read time axis: %w", err)
	}
	times, tShape, err := readAllValues(tv)
	if err != nil || len(tShape) != 1 {
		_ = ds.Close()
		return nil, fmt.Errorf("failed to read time axis: %v", err)
	}
	epoch := oisstEpoch
	if units, ok := getAttrString(tv, "units"); ok {
		if ep, ok := parseTimeUnits(units); ok {
			epoch = ep
		}
	}
	lats, err := readAxisVar(ds, "lat", "latitude")
	if err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("failed to read lat axis: %w", err)
	}
	lons, err := readAxisVar(ds, "lon", "longitude")
	if err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("failed to read lon axis: %w", err)
	}

	tIdx := timeIndexFor(times, epoch, date)
	if tIdx < 0 {
		_ = ds.Close()
		return nil, fmt.Errorf("no time slice for %s (not yet published?)", date.Format("2006-01-02"))
	}

	latStart, latCount, err := indexRange(lats, box.LatMin, box.LatMax)
	if err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("latitude subset: %w", err)
	}
	lonStart, lonCount, err := indexRange(lons, box.LonMin, box.LonMax)
	if err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("longitude subset: %w", err)
	}

	var values [][]float64
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		// Let the DAP server do the slicing: reopen with an index constraint
		// so only the boxed slab crosses the wire.
		_ = ds.Close()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values, err = e.fetchConstrained(loc, tIdx, latStart, latCount, lonStart, lonCount)
	} else {
		values, err = sliceLocal(ds, tIdx, len(lats), len(lons), latStart, latCount, lonStart, lonCount)
		_ = ds.Close()
	}
	if err != nil {
		return nil, err
	}

	grid := &domain.Grid{
		Date:   domain.Day(date),
		Lat:    append([]float64(nil), lats[latStart:latStart+latCount]...),
		Lon:    append([]float64(nil), lons[lonStart:lonStart+lonCount]...),
		Values: values,
	}
	return grid, nil
}

// fetchConstrained reads sst through a DAP index constraint expression.
func (e *DAPEngine) fetchConstrained(loc string, tIdx, latStart, latCount, lonStart, lonCount int) ([][]float64, error) {
	cURL := fmt.Sprintf("%s?sst[%d][%d:%d][%d:%d]",
		loc, tIdx, latStart, latStart+latCount-1, lonStart, lonStart+lonCount-1)

	sub, err := netcdf.OpenFile(cURL, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open constrained dataset: %w", err)
	}
	defer func() { _ = sub.Close() }()

	v, err := sub.Var("sst")
	if err != nil {
		return nil, fmt.Errorf("variable 'sst' not found in constrained dataset")
	}

	flat, shape, err := readAllValues(v)
	if err != nil {
		return nil, fmt.Errorf("failed to read sst slab: %w", err)
	}
	applyPacking(flat, v)

	// The time dimension survives as a singleton; drop it.
	shape = dropSingletons(shape)
	if len(shape) != 2 || shape[0] != latCount || shape[1] != lonCount {
		return nil, fmt.Errorf("slab shape %v, expected [%d %d]", shape, latCount, lonCount)
	}

	values := make([][]float64, latCount)
	for i := 0; i < latCount; i++ {
		values[i] = flat[i*lonCount : (i+1)*lonCount]
	}
	return values, nil
}

// sliceLocal reads the whole sst variable and cuts the slab in memory.
// Local yearly fixtures are small, so a full read is fine here.
func sliceLocal(ds netcdf.Dataset, tIdx, nLat, nLon, latStart, latCount, lonStart, lonCount int) ([][]float64, error) {
	v, err := ds.Var("sst")
	if err != nil {
		return nil, fmt.Errorf("variable 'sst' not found")
	}
	flat, shape, err := readAllValues(v)
	if err != nil {
		return nil, fmt.Errorf("failed to read sst: %w", err)
	}
	applyPacking(flat, v)

	if len(shape) != 3 || shape[1] != nLat || shape[2] != nLon {
		return nil, fmt.Errorf("sst shape %v, expected [time %d %d]", shape, nLat, nLon)
	}
	if tIdx >= shape[0] {
		return nil, fmt.Errorf("time index %d out of range (%d slices)", tIdx, shape[0])
	}

	values := make([][]float64, latCount)
	for i := 0; i < latCount; i++ {
		rowOff := tIdx*nLat*nLon + (latStart+i)*nLon + lonStart
		values[i] = append([]float64(nil), flat[rowOff:rowOff+lonCount]...)
	}
	return values, nil
}

// readAxisVar reads a 1D coordinate variable, trying candidate names in order.
func readAxisVar(ds netcdf.Dataset, names ...string) ([]float64, error) {
	for _, name := range names {
		v, err := ds.Var(name)
		if err != nil {
			continue
		}
		flat, shape, err := readAllValues(v)
		if err != nil || len(shape) != 1 {
			continue
		}
		return flat, nil
	}
	return nil, fmt.Errorf("axis variable not found (tried: %v)", names)
}

// readAllValues reads an entire variable as float64 regardless of the stored
// type, returning the flat values and the dimension lengths.
func readAllValues(v netcdf.Var) ([]float64, []int, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	shape := make([]int, len(dims))
	total := 1
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get dim %d length: %w", i, err)
		}
		shape[i] = int(n)
		total *= int(n)
	}

	t, err := v.Type()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get var type: %w", err)
	}

	flat := make([]float64, total)
	switch t {
	case netcdf.DOUBLE:
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, nil, err
		}
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, nil, err
		}
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, nil, err
		}
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported var type: %v", t)
	}
	return flat, shape, nil
}

// applyPacking maps fill values to NaN and applies scale_factor/add_offset
// in place. OISST packs sst as int16 with scale 0.01.
func applyPacking(flat []float64, v netcdf.Var) {
	fill, hasFill := getFillValue(v)
	scale, hasScale := getAttrFloat(v, "scale_factor")
	offset, hasOffset := getAttrFloat(v, "add_offset")
	if !hasScale {
		scale = 1
	}
	if !hasOffset {
		offset = 0
	}
	for i, val := range flat {
		if hasFill && val == fill {
			flat[i] = math.NaN()
			continue
		}
		flat[i] = val*scale + offset
	}
}

// getFillValue returns the _FillValue or missing_value attribute if present.
func getFillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		if val, ok := getAttrFloat(v, name); ok {
			return val, true
		}
	}
	return 0, false
}

// getAttrFloat reads a scalar numeric attribute as float64.
func getAttrFloat(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if a == (netcdf.Attr{}) {
		return 0, false
	}
	n, err := a.Len()
	if err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, 1)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, 1)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, 1)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	return 0, false
}

// getAttrString reads a character attribute.
func getAttrString(v netcdf.Var, name string) (string, bool) {
	a := v.Attr(name)
	if a == (netcdf.Attr{}) {
		return "", false
	}
	n, err := a.Len()
	if err != nil || n == 0 {
		return "", false
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", false
	}
	return strings.TrimRight(string(buf), "\x00"), true
}

// dropSingletons removes length-1 dimensions from a shape.
func dropSingletons(shape []int) []int {
	out := shape[:0]
	for _, n := range shape {
		if n != 1 {
			out = append(out, n)
		}
	}
	return out
}
