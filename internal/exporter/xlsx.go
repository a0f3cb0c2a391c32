package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"
)

const (
	dataSheet   = "Data"
	curvesSheet = "Curves"
)

// WriteXLSX writes a workbook with a Data sheet (depth plus curves) and a Curves sheet
// listing each column's unit.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(dataSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := t.Headers()
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns)+1)
		cells[0] = row.Depth
		for j := range t.Columns {
			if j >= len(row.Values) || math.IsNaN(row.Values[j]) || math.IsInf(row.Values[j], 0) {
				cells[j+1] = nil
				continue
			}
			cells[j+1] = row.Values[j]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush data sheet: %w", err)
	}

	if _, err := f.NewSheet(curvesSheet); err != nil {
		return fmt.Errorf("failed to create curves sheet: %w", err)
	}
	curveRows := [][]interface{}{{"Name", "Unit"}, {headers[0], t.DepthUnit}}
	for _, c := range t.Columns {
		curveRows = append(curveRows, []interface{}{c.Name, c.Unit})
	}
	for i, r := range curveRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(curvesSheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write curve %d: %w", i, err)
		}
	}
	if t.Well != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: t.Well}); err != nil {
			return fmt.Errorf("failed to set document title: %w", err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}
