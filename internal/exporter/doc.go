// Package exporter writes well data as CSV or XLSX.
//
// Both writers consume a Table: a depth column followed by the selected curves. Invalid
// readings (NaN) become empty cells; the -9999 sentinel is written as is, so an export
// mirrors what the file held.
//
// Example usage:
//
//	table := exporter.FromLAS(result, []string{"GR", "RT"})
//	err := exporter.Write(w, exporter.FormatXLSX, table)
package exporter
