package las

import "math"

// WellMetadata holds the well-level fields read from the ~Well section.
// Every field is optional because files frequently omit or malform them.
type WellMetadata struct {
	Name       *string  `json:"name,omitempty"`
	StartDepth *float64 `json:"startDepth,omitempty"`
	StopDepth  *float64 `json:"stopDepth,omitempty"`
	Step       *float64 `json:"step,omitempty"`
}

// CurveDefinition is one entry of the ~Curve section.
type CurveDefinition struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// LogRow is one accepted data line. Values is indexed by curve ordinal and has the same
// length as the curve list at the time the row was read; Values[0] is the depth column.
type LogRow struct {
	Depth  float64
	Values []float64
}

// Value returns the reading for the named curve. When a mnemonic is declared more than
// once the last declaration wins, matching a name-keyed view of the row. The depth
// column (ordinal 0) is never returned through this lookup.
func (r LogRow) Value(curves []CurveDefinition, name string) (float64, bool) {
	found := false
	var v float64
	for i := 1; i < len(r.Values) && i < len(curves); i++ {
		if curves[i].Name == name {
			v = r.Values[i]
			found = true
		}
	}
	return v, found
}

// Readings returns the row as a name-keyed map, excluding the depth column.
// Later ordinals overwrite earlier ones for duplicate mnemonics.
func (r LogRow) Readings(curves []CurveDefinition) map[string]float64 {
	out := make(map[string]float64, len(r.Values))
	for i := 1; i < len(r.Values) && i < len(curves); i++ {
		out[curves[i].Name] = r.Values[i]
	}
	return out
}

// Result is the output of a parse.
type Result struct {
	Well   WellMetadata
	Curves []CurveDefinition
	Rows   []LogRow

	// DroppedRows counts ~ASCII lines rejected because their token count did not
	// match the declared curve count.
	DroppedRows int
}

// CurveNames returns the curve mnemonics in declaration order.
func (r *Result) CurveNames() []string {
	names := make([]string, len(r.Curves))
	for i, c := range r.Curves {
		names[i] = c.Name
	}
	return names
}

// DepthRange returns the smallest and largest depth among the rows.
// ok is false when there are no rows with a numeric depth.
func (r *Result) DepthRange() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range r.Rows {
		if math.IsNaN(row.Depth) {
			continue
		}
		min = math.Min(min, row.Depth)
		max = math.Max(max, row.Depth)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}
