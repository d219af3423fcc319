package export

import (
	"encoding/csv"
	"io"

	"cvscreen/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting CV results.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts results to rows and writes them.
func (w *CSVWriter) WriteResults(results []domain.CvResult) error {
	for i := range results {
		if err := w.csv.Write(resultToRow(&results[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a BOM, the header and every result to w.
func WriteCSV(w io.Writer, results []domain.CvResult) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteResults(results); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
