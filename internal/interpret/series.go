package interpret

import "sort"

// Point is one depth-indexed reading.
type Point struct {
	Depth float64 `json:"depth"`
	Value float64 `json:"value"`
}

// Series is an ordered list of points. Order is the caller's depth order.
type Series []Point

// Values returns the point values in series order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Depths returns the point depths in series order.
func (s Series) Depths() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Depth
	}
	return out
}

// Valid returns the points that pass IsValid, preserving order.
func (s Series) Valid() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if IsValid(p.Value) {
			out = append(out, p)
		}
	}
	return out
}

// Row is a depth with readings keyed by curve name, as stored by the persistence layer.
type Row struct {
	Depth  float64
	Values map[string]float64
}

// Extract builds the sentinel-filtered series of one curve from rows. Rows that do not
// carry the curve, or carry an invalid reading for it, are skipped.
func Extract(rows []Row, curve string) Series {
	out := make(Series, 0, len(rows))
	for _, r := range rows {
		v, ok := r.Values[curve]
		if !ok || !IsValid(v) {
			continue
		}
		out = append(out, Point{Depth: r.Depth, Value: v})
	}
	return out
}

// Window returns the rows whose depth lies in [from, to].
func Window(rows []Row, from, to float64) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Depth >= from && r.Depth <= to {
			out = append(out, r)
		}
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	cp := make([]float64, len(values))
	copy(cp, values)
	sort.Float64s(cp)
	return cp
}
