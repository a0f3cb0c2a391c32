// Package domain contains the data shapes exchanged by the LAS Analyzer API and tools.
package domain

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// Well is a stored well as returned by the API.
type Well struct {
	ID          string    `json:"id"`
	Name        *string   `json:"name"`
	StartDepth  *float64  `json:"startDepth"`
	StopDepth   *float64  `json:"stopDepth"`
	Step        *float64  `json:"step"`
	FileName    string    `json:"fileName,omitempty"`
	FileURL     string    `json:"fileUrl"`
	CurveCount  int       `json:"curveCount"`
	RowCount    int       `json:"rowCount"`
	DroppedRows int       `json:"droppedRows"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Curve is a declared curve.
type Curve struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// DataRow is one depth sample returned by the data endpoint. Invalid readings encode as
// null.
type DataRow struct {
	Depth  float64
	Values map[string]float64
}

// MarshalJSON renders {"depth": d, "values": {...}}.
func (r DataRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Depth  *float64            `json:"depth"`
		Values map[string]*float64 `json:"values"`
	}{Depth: finite(r.Depth), Values: finiteMap(r.Values)})
}

// FlatRow is one parsed row rendered as {"depth": d, "<curve>": value, ...}.
type FlatRow struct {
	Depth  float64
	Values map[string]float64
}

// MarshalJSON flattens the readings next to the depth key. A curve named "depth" does
// not overwrite the depth.
func (r FlatRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(r.Values)+1)
	keys := make([]string, 0, len(r.Values))
	for k := range r.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out[k] = finite(r.Values[k])
	}
	out["depth"] = finite(r.Depth)
	return json.Marshal(out)
}

// ParsedWell is the JSON document produced for a parsed LAS file.
type ParsedWell struct {
	Well        WellMetadata `json:"well"`
	Curves      []Curve      `json:"curves"`
	Rows        []FlatRow    `json:"rows"`
	DroppedRows int          `json:"droppedRows"`
}

// WellMetadata mirrors the ~Well fields that are kept.
type WellMetadata struct {
	Name       *string  `json:"name"`
	StartDepth *float64 `json:"startDepth"`
	StopDepth  *float64 `json:"stopDepth"`
	Step       *float64 `json:"step"`
}

// UploadResult is the response to a successful upload.
type UploadResult struct {
	Message     string `json:"message"`
	WellID      string `json:"wellId"`
	FileURL     string `json:"fileUrl"`
	CurveCount  int    `json:"curveCount"`
	RowCount    int    `json:"rowCount"`
	DroppedRows int    `json:"droppedRows"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finiteMap(values map[string]float64) map[string]*float64 {
	out := make(map[string]*float64, len(values))
	for k, v := range values {
		out[k] = finite(v)
	}
	return out
}
