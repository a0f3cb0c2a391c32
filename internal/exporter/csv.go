package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// utf8BOM helps Excel recognise UTF-8 CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes a BOM, the header line and one record per row.
func WriteCSV(w io.Writer, t Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(t.Headers()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Columns)+1)
	for i, row := range t.Rows {
		record[0] = formatFloat(row.Depth)
		for j := range t.Columns {
			v := 0.0
			if j < len(row.Values) {
				v = row.Values[j]
			}
			record[j+1] = formatFloat(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to path, creating parent directories.
func WriteFile(path string, format Format, t Table) error {
	slog.Info("Writing export file",
		slog.String("file_path", path),
		slog.String("format", string(format)),
		slog.Int("record_count", len(t.Rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, format, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
