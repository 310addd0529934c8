// Package parse converts uploaded file bytes into normalized text plus
// optional structured side-data, keyed by the declared MIME type.
package parse

import (
	"fmt"
	"strings"
	"time"
)

// MIME types routed by the dispatcher.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeCSV  = "text/csv"
	MimeText = "text/plain"
)

// Result is the normalized output of a format parser.
// Fallback marks results where a parser failed and Raw carries diagnostic
// text instead of document content.
type Result struct {
	Raw        string
	Structured map[string]any
	Metadata   map[string]any
	Fallback   bool
}

// Dispatcher routes raw bytes to a format parser by declared MIME type.
// Parse is total: any parser failure, including an unrecognized MIME type,
// is absorbed into a fallback Result and never surfaces as an error.
type Dispatcher struct {
	now func() time.Time
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{now: time.Now}
}

// Parse selects a parser by exact MIME match and runs it. Parser errors are
// converted into a diagnostic Result whose Raw text flows forward into
// extraction like any other document.
func (d *Dispatcher) Parse(data []byte, mimeType string) Result {
	res, err := d.dispatch(data, normalizeMime(mimeType))
	if err != nil {
		return d.fallback(err)
	}
	if res.Metadata == nil {
		res.Metadata = make(map[string]any, 1)
	}
	res.Metadata["extractedAt"] = d.timestamp()
	return res
}

func (d *Dispatcher) dispatch(data []byte, mimeType string) (Result, error) {
	switch mimeType {
	case MimePDF:
		return parsePDF(data), nil
	case MimeDOCX:
		return parseWord(data)
	case MimeXLSX:
		return parseSpreadsheet(data)
	case MimeCSV:
		return parseCSV(data)
	case MimeText:
		return parseText(data), nil
	default:
		return Result{}, fmt.Errorf("unsupported file type: %s", mimeType)
	}
}

func (d *Dispatcher) fallback(err error) Result {
	msg := err.Error()
	return Result{
		Raw: "Error parsing file: " + msg,
		Metadata: map[string]any{
			"extractedAt": d.timestamp(),
			"error":       msg,
		},
		Fallback: true,
	}
}

func (d *Dispatcher) timestamp() string {
	now := d.now
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(time.RFC3339)
}

func normalizeMime(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
