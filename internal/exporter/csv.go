package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// utf8BOM helps Excel recognise UTF-8 content
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row plus records ready for CSV encoding
type Table struct {
	Headers []string
	Records [][]string
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	bom bool
}

// NewCSVWriter creates a new CSV writer. With bom set every output starts
// with a UTF-8 byte order mark.
func NewCSVWriter(bom bool) *CSVWriter {
	return &CSVWriter{bom: bom}
}

// Write encodes t to dst
func (w *CSVWriter) Write(dst io.Writer, t Table) error {
	if w.bom {
		if _, err := dst.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(dst)
	if len(t.Headers) > 0 {
		if err := writer.Write(t.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range t.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes t to path, creating parent directories as needed
func (w *CSVWriter) WriteFile(path string, t Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := w.Write(file, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
