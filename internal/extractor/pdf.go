package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when no readable text could be pulled out of a PDF,
// typically because it is image-only or not a PDF at all.
var ErrNoText = errors.New("no readable text could be extracted from PDF")

// Extractor turns statement PDFs into text. The zero value uses
// "pdftotext" from PATH as its fallback.
type Extractor struct {
	// PdftotextPath is the poppler pdftotext binary used when the Go
	// library cannot decode a file. Empty means "pdftotext".
	PdftotextPath string
}

// New returns an Extractor that falls back to the given pdftotext binary.
func New(pdftotextPath string) *Extractor {
	return &Extractor{PdftotextPath: pdftotextPath}
}

// ExtractText reads a PDF file and returns the text of each page.
func (e *Extractor) ExtractText(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return e.ExtractTextFromBytes(data)
}

// ExtractTextFromBytes returns the text of each page of an in-memory PDF.
// The ledongthuc/pdf library is tried first; if it fails or returns
// garbage, the external pdftotext command is used.
func (e *Extractor) ExtractTextFromBytes(data []byte) ([]string, error) {
	pages, libErr := extractWithLibrary(data)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := e.extractWithPdftotext(data)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoText, libErr)
	}
	return nil, ErrNoText
}

// ExtractTextCombined reads a PDF and returns all pages as one string.
func (e *Extractor) ExtractTextCombined(filePath string) (string, error) {
	pages, err := e.ExtractText(filePath)
	if err != nil {
		return "", err
	}
	return Combine(pages), nil
}

// Combine concatenates page texts in order, making sure every page ends
// with a newline so the last line of one page never runs into the next.
func Combine(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		if !strings.HasSuffix(p, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// extractWithLibrary uses the ledongthuc/pdf library, row-based first.
func extractWithLibrary(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", openErr)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	plainText := extractByReaderPlainText(r)
	if isReadableText([]string{plainText}) {
		return []string{plainText}, nil
	}

	return pages, nil
}

// extractByRow rebuilds each page line by line from the library's rows.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByReaderPlainText is the whole-document extraction path.
func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext pipes the PDF through pdftotext (poppler-utils).
// Pages come back separated by form feeds.
func (e *Extractor) extractWithPdftotext(data []byte) ([]string, error) {
	bin := e.PdftotextPath
	if bin == "" {
		bin = "pdftotext"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	cmd := exec.Command(path, "-enc", "UTF-8", "-", "-")
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	var pages []string
	for _, page := range strings.Split(string(out), "\f") {
		if strings.TrimSpace(page) != "" {
			pages = append(pages, page)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// textQuality returns the ratio of plain ASCII readable characters to all
// characters, 0.0-1.0. unicode.IsLetter is too broad here: identity-encoded
// fonts decode to accented garbage.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"*`%&@#!?+=$£€₹", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText requires more than 50 characters, of which more than 60%
// are readable ASCII.
func isReadableText(pages []string) bool {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	if n <= 50 {
		return false
	}
	return textQuality(pages) > 0.6
}
