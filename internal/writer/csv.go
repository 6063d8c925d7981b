package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// CSVWriter writes extracted fields as field,value rows.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the fields to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, fields *models.ExtractedFields) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, fields)
}

// Write writes the fields in CSV format to the given writer. Absent
// fields get an empty value cell.
func (w *CSVWriter) Write(out io.Writer, fields *models.ExtractedFields) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		if err := writer.Write([]string{"field", "value"}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, f := range fields.Fields() {
		value := ""
		if f.Value != nil {
			value = *f.Value
		}
		if err := writer.Write([]string{f.Name, value}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
