package exporter

import (
	"io"

	"lasanalyzer/internal/las"
)

// Column is an exported curve.
type Column struct {
	Name string
	Unit string
}

// Row is one depth and the values of the table's columns, in column order.
type Row struct {
	Depth  float64
	Values []float64
}

// Table is the data handed to a writer.
type Table struct {
	Well      string
	DepthName string
	DepthUnit string
	Columns   []Column
	Rows      []Row
}

// Headers returns the header line: the depth column then each curve.
func (t Table) Headers() []string {
	name := t.DepthName
	if name == "" {
		name = "DEPTH"
	}
	headers := make([]string, 0, len(t.Columns)+1)
	headers = append(headers, name)
	for _, c := range t.Columns {
		headers = append(headers, c.Name)
	}
	return headers
}

// FromLAS builds a table from a parse result. An empty curves list selects every curve
// except the depth column. Unknown curve names are skipped.
func FromLAS(res *las.Result, curves []string) Table {
	t := Table{DepthName: "DEPTH"}
	if res.Well.Name != nil {
		t.Well = *res.Well.Name
	}
	if len(res.Curves) > 0 {
		t.DepthName = res.Curves[0].Name
		t.DepthUnit = res.Curves[0].Unit
	}

	declared := make(map[string]las.CurveDefinition, len(res.Curves))
	for i, c := range res.Curves {
		if i > 0 {
			declared[c.Name] = c
		}
	}
	if len(curves) == 0 {
		for i, c := range res.Curves {
			if i > 0 {
				curves = append(curves, c.Name)
			}
		}
	}
	seen := make(map[string]bool, len(curves))
	for _, name := range curves {
		c, ok := declared[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		t.Columns = append(t.Columns, Column{Name: c.Name, Unit: c.Unit})
	}

	t.Rows = make([]Row, 0, len(res.Rows))
	for _, r := range res.Rows {
		readings := r.Readings(res.Curves)
		values := make([]float64, len(t.Columns))
		for i, c := range t.Columns {
			values[i] = readings[c.Name]
		}
		t.Rows = append(t.Rows, Row{Depth: r.Depth, Values: values})
	}
	return t
}

// Write encodes the table in the given format.
func Write(w io.Writer, format Format, t Table) error {
	if format == FormatXLSX {
		return WriteXLSX(w, t)
	}
	return WriteCSV(w, t)
}
