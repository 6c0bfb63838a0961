package oisst

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/oceanview/asia-sst/internal/domain"
)

// Packing defaults, used only when a subset response carries no packing
// attributes of its own: the archive's documented int16 packing, and the
// netCDF default float fill.
const (
	packedScale = 0.01
	packedFill  = -999
	ncFillFloat = 9.9692099683868690e36
)

// packing is the decoded sst packing: fill sentinel plus linear unpacking.
type packing struct {
	fill    float64
	hasFill bool
	scale   float64
	offset  float64
}

// SubsetEngine is the built-in fallback: it asks the THREDDS NetcdfSubset
// service for just the boxed day, downloads the small NetCDF response and
// reads it with a pure-Go reader. No C library involved.
type SubsetEngine struct {
	// URL maps a date and box to a NetcdfSubset request.
	URL    func(date time.Time, box domain.BoundingBox) string
	Client *http.Client
}

// NewSubsetEngine creates the fallback engine with a bounded HTTP timeout.
// The original pipeline could hang indefinitely on a stalled server; the
// client timeout puts a ceiling on that.
func NewSubsetEngine(baseURL string, timeout time.Duration) *SubsetEngine {
	return &SubsetEngine{
		URL: func(date time.Time, box domain.BoundingBox) string {
			return SubsetURL(baseURL, date, box)
		},
		Client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the engine in error messages.
func (e *SubsetEngine) Name() string { return "ncss" }

// Fetch downloads and decodes one boxed day.
func (e *SubsetEngine) Fetch(ctx context.Context, date time.Time, box domain.BoundingBox) (*domain.Grid, error) {
	u := e.URL(date, box)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build subset request: %w", err)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subset request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("subset server returned %s: %s", resp.Status, string(body))
	}

	tmp, err := os.CreateTemp("", "oisst-subset-*.nc")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to download subset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush temp file: %w", err)
	}

	return decodeSubsetFile(tmp.Name(), date, box)
}

// decodeSubsetFile reads a downloaded subset file into a grid.
func decodeSubsetFile(path string, date time.Time, box domain.BoundingBox) (*domain.Grid, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subset file: %w", err)
	}
	defer nc.Close()

	sstVr, err := nc.GetVariable("sst")
	if err != nil {
		return nil, fmt.Errorf("variable 'sst' not found in subset response")
	}

	axis := func(names ...string) ([]float64, error) {
		for _, name := range names {
			vr, err := nc.GetVariable(name)
			if err != nil {
				continue
			}
			if vals, ok := toFloats(vr.Values); ok {
				return vals, nil
			}
		}
		return nil, fmt.Errorf("axis variable not found (tried: %v)", names)
	}

	lats, err := axis("lat", "latitude")
	if err != nil {
		return nil, fmt.Errorf("failed to read lat axis: %w", err)
	}
	lons, err := axis("lon", "longitude")
	if err != nil {
		return nil, fmt.Errorf("failed to read lon axis: %w", err)
	}

	timeVr, err := nc.GetVariable("time")
	if err != nil {
		return nil, fmt.Errorf("failed to read time axis: %w", err)
	}
	times, ok := toFloats(timeVr.Values)
	if !ok {
		return nil, fmt.Errorf("time axis has an unsupported type %T", timeVr.Values)
	}
	epoch := oisstEpoch
	if units, ok := attrString(timeVr.Attributes.Get("units")); ok {
		if e, ok := parseTimeUnits(units); ok {
			epoch = e
		}
	}

	// The subset service answers a time= query with the nearest slice it
	// has. Only an exact calendar-day match counts as published data.
	tIdx := timeIndexFor(times, epoch, date)
	if tIdx < 0 {
		return nil, fmt.Errorf("no time slice for %s (not yet published?)", date.Format("2006-01-02"))
	}

	cube, err := sstCube(sstVr.Values, sstPacking(sstVr.Attributes))
	if err != nil {
		return nil, err
	}
	if tIdx >= len(cube) {
		return nil, fmt.Errorf("time index %d out of range (%d slices)", tIdx, len(cube))
	}
	slab := cube[tIdx]
	if len(slab) != len(lats) {
		return nil, fmt.Errorf("sst has %d rows, expected %d latitudes", len(slab), len(lats))
	}

	// The service clips to the requested box already, but the returned edges
	// can overshoot by a cell; clip again so the invariant holds exactly.
	latStart, latCount, err := indexRange(lats, box.LatMin, box.LatMax)
	if err != nil {
		return nil, fmt.Errorf("latitude subset: %w", err)
	}
	lonStart, lonCount, err := indexRange(lons, box.LonMin, box.LonMax)
	if err != nil {
		return nil, fmt.Errorf("longitude subset: %w", err)
	}

	values := make([][]float64, latCount)
	for i := 0; i < latCount; i++ {
		row := slab[latStart+i]
		if len(row) != len(lons) {
			return nil, fmt.Errorf("sst row has %d columns, expected %d longitudes", len(row), len(lons))
		}
		values[i] = append([]float64(nil), row[lonStart:lonStart+lonCount]...)
	}

	grid := &domain.Grid{
		Date:   domain.Day(date),
		Lat:    append([]float64(nil), lats[latStart:latStart+latCount]...),
		Lon:    append([]float64(nil), lons[lonStart:lonStart+lonCount]...),
		Values: values,
	}
	return grid, nil
}

// toFloats converts a decoded 1D coordinate array to float64.
func toFloats(values interface{}) ([]float64, bool) {
	switch vals := values.(type) {
	case []float64:
		return vals, true
	case []float32:
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}
		return out, true
	case []int32:
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}
		return out, true
	default:
		return nil, false
	}
}

// sstPacking reads the fill and scale/offset attributes of the sst
// variable, the same attributes the primary engine applies. Responses
// without them get the archive's documented int16 packing or the netCDF
// default float fill, decided per value type in sstCube.
func sstPacking(attrs api.AttributeMap) packing {
	pk := packing{scale: 1}
	for _, name := range []string{"_FillValue", "missing_value"} {
		if fill, ok := attrFloat(attrs.Get(name)); ok {
			pk.fill = fill
			pk.hasFill = true
			break
		}
	}
	if scale, ok := attrFloat(attrs.Get("scale_factor")); ok && scale != 0 {
		pk.scale = scale
	}
	if offset, ok := attrFloat(attrs.Get("add_offset")); ok {
		pk.offset = offset
	}
	return pk
}

// attrFloat converts a decoded scalar numeric attribute to float64.
func attrFloat(val interface{}, has bool) (float64, bool) {
	if !has {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int32:
		return float64(v), true
	case int16:
		return float64(v), true
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	}
	return 0, false
}

// attrString converts a decoded character attribute to a string.
func attrString(val interface{}, has bool) (string, bool) {
	if !has {
		return "", false
	}
	if s, ok := val.(string); ok {
		return s, true
	}
	if b, ok := val.([]byte); ok {
		return string(b), true
	}
	return "", false
}

// sstCube converts the decoded sst values to [time][lat][lon] float64,
// mapping fill sentinels to NaN and unpacking with scale/offset.
func sstCube(values interface{}, pk packing) ([][][]float64, error) {
	switch vals := values.(type) {
	case [][][]float64:
		fill := pk.fill
		if !pk.hasFill {
			fill = ncFillFloat
		}
		out := make([][][]float64, len(vals))
		for t, slab := range vals {
			out[t] = make([][]float64, len(slab))
			for i, row := range slab {
				out[t][i] = make([]float64, len(row))
				for j, v := range row {
					if v == fill {
						out[t][i][j] = math.NaN()
						continue
					}
					out[t][i][j] = v*pk.scale + pk.offset
				}
			}
		}
		return out, nil
	case [][][]float32:
		fill := float32(pk.fill)
		if !pk.hasFill {
			fill = float32(ncFillFloat)
		}
		out := make([][][]float64, len(vals))
		for t, slab := range vals {
			out[t] = make([][]float64, len(slab))
			for i, row := range slab {
				out[t][i] = make([]float64, len(row))
				for j, v := range row {
					if v == fill {
						out[t][i][j] = math.NaN()
						continue
					}
					out[t][i][j] = float64(v)*pk.scale + pk.offset
				}
			}
		}
		return out, nil
	case [][][]int16:
		// A packed response without its packing attributes falls back to
		// the archive's documented int16 conventions.
		fill := int16(packedFill)
		scale, offset := packedScale, 0.0
		if pk.hasFill {
			fill = int16(pk.fill)
		}
		if pk.scale != 1 || pk.offset != 0 {
			scale, offset = pk.scale, pk.offset
		}
		out := make([][][]float64, len(vals))
		for t, slab := range vals {
			out[t] = make([][]float64, len(slab))
			for i, row := range slab {
				out[t][i] = make([]float64, len(row))
				for j, v := range row {
					if v == fill {
						out[t][i][j] = math.NaN()
						continue
					}
					out[t][i][j] = float64(v)*scale + offset
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported sst value type %T", values)
	}
}
