package parse

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// parseCSV parses with header-row inference and per-field dynamic typing.
// Ragged rows are recorded as warnings, not failures; only a malformed
// stream errors.
func parseCSV(data []byte) (Result, error) {
	text := string(data)
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("csv parsing failed: %w", err)
	}

	var headers []string
	rows := make([]map[string]any, 0)
	var warnings []string

	if len(records) > 0 {
		headers = records[0]
		for i, record := range records[1:] {
			if len(record) != len(headers) {
				warnings = append(warnings, fmt.Sprintf("row %d: expected %d fields, got %d", i+2, len(headers), len(record)))
			}
			row := make(map[string]any, len(headers))
			for j, header := range headers {
				if j < len(record) {
					row[header] = typedField(record[j])
				}
			}
			rows = append(rows, row)
		}
	}
	if headers == nil {
		headers = []string{}
	}

	metadata := map[string]any{
		"rowCount":    len(rows),
		"columnCount": len(headers),
	}
	if len(warnings) > 0 {
		metadata["warnings"] = warnings
	}

	return Result{
		Raw: text,
		Structured: map[string]any{
			"data":     rows,
			"headers":  headers,
			"rowCount": len(rows),
		},
		Metadata: metadata,
	}, nil
}

// typedField converts numeric and boolean strings to their typed values.
func typedField(field string) any {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return field
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	switch trimmed {
	case "true":
		return true
	case "false":
		return false
	}
	return field
}
