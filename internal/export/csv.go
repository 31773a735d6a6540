// Package export renders document results as tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pagelens/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the element table header row.
var columns = []string{
	"Page",
	"Element ID",
	"Type",
	"X1",
	"Y1",
	"X2",
	"Y2",
	"Confidence",
	"Content",
}

// Writer wraps csv.Writer for exporting extracted elements as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocument writes one row per element across all pages, in page order.
func (w *Writer) WriteDocument(doc *domain.DocumentResult) error {
	for i := range doc.Pages {
		page := &doc.Pages[i]
		for _, el := range page.Extraction.ElementsOrEmpty() {
			if err := w.csv.Write(elementToRow(page.PageNumber, &el)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// elementToRow converts a single element to a string slice. Unlocated
// elements leave the coordinate columns empty.
func elementToRow(pageNumber int, el *domain.Element) []string {
	row := make([]string, len(columns))
	row[0] = strconv.Itoa(pageNumber)
	row[1] = strconv.Itoa(el.ID)
	row[2] = el.Type
	if el.BBox != nil {
		row[3] = formatCoord(el.BBox.X1)
		row[4] = formatCoord(el.BBox.Y1)
		row[5] = formatCoord(el.BBox.X2)
		row[6] = formatCoord(el.BBox.Y2)
	}
	if el.Confidence != nil {
		row[7] = strconv.FormatFloat(*el.Confidence, 'f', 3, 64)
	}
	row[8] = el.Content
	return row
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
