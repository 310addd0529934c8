package parse

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfStreamPattern = regexp.MustCompile(`(?s)stream\s*(.*?)\s*endstream`)

// pdfPlaceholder is returned when neither the PDF reader nor the content
// stream scan produce any text.
const pdfPlaceholder = "No extractable text found in PDF"

// parsePDF extracts text from a PDF on a best-effort basis. It never fails:
// a proper text extraction is attempted first, then a pattern scan over the
// encoded content streams, then a fixed placeholder.
func parsePDF(data []byte) Result {
	text := extractPDFText(data)
	return Result{
		Raw: text,
		Metadata: map[string]any{
			"wordCount": countWords(text),
		},
	}
}

func extractPDFText(data []byte) (text string) {
	// The PDF reader panics on some malformed inputs; this parser must not.
	defer func() {
		if r := recover(); r != nil {
			text = scanContentStreams(data)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		if plain, perr := reader.GetPlainText(); perr == nil {
			var buf bytes.Buffer
			if _, cerr := io.Copy(&buf, plain); cerr == nil {
				if extracted := strings.TrimSpace(buf.String()); extracted != "" {
					return extracted
				}
			}
		}
	}
	return scanContentStreams(data)
}

func scanContentStreams(data []byte) string {
	matches := pdfStreamPattern.FindAllString(string(data), -1)
	if len(matches) == 0 {
		return pdfPlaceholder
	}
	return strings.Join(matches, " ")
}
