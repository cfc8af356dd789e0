package geom

import (
	"regexp"
	"strconv"
	"strings"
)

type BBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Valid reports whether the box spans a non-empty area.
func (b BBox) Valid() bool {
	return b.MaxLon > b.MinLon && b.MaxLat > b.MinLat
}

// Contains reports whether p lies inside the box (edges included).
func (b BBox) Contains(p LatLon) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// LatLon is a coordinate in display order (latitude first).
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Value is one CSV cell. Numeric cells keep their raw text too.
type Value struct {
	Raw   string
	Num   float64
	IsNum bool
}

func (v Value) Empty() bool { return v.Raw == "" }

// String renders numbers without trailing zeros, like the source would show them.
func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Raw
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Float reads the number at the start of the cell and ignores any trailing
// text, so "25 km" is 25. Cells that do not start with a number fail.
func (v Value) Float() (float64, bool) {
	if v.IsNum {
		return v.Num, true
	}
	lead := leadingNumber.FindString(strings.TrimSpace(v.Raw))
	if lead == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(lead, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Row maps column name to cell.
type Row map[string]Value

// First returns the first non-empty cell among the candidate columns, in order.
func (r Row) First(columns ...string) (Value, bool) {
	for _, c := range columns {
		if v, ok := r[c]; ok && !v.Empty() {
			return v, true
		}
	}
	return Value{}, false
}
