package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// ParsingMethod tags CLI output with the rule set that produced it.
const ParsingMethod = "universal_precision"

// JSONWriter writes the fields plus extraction metadata as one JSON object.
type JSONWriter struct {
	Indent bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type jsonReport struct {
	*models.ExtractedFields
	ParsingMethod       string `json:"parsing_method"`
	ExtractionTimestamp string `json:"extraction_timestamp"`
}

// WriteToFile writes the report to a JSON file at the given path.
func (w *JSONWriter) WriteToFile(path string, fields *models.ExtractedFields) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, fields)
}

// Write encodes the report to out.
func (w *JSONWriter) Write(out io.Writer, fields *models.ExtractedFields) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if w.Indent {
		enc.SetIndent("", "    ")
	}

	report := jsonReport{
		ExtractedFields:     fields,
		ParsingMethod:       ParsingMethod,
		ExtractionTimestamp: now().Format(time.RFC3339),
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
