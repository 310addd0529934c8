package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseSpreadsheet renders every sheet of an XLSX workbook as delimited text
// under a sheet-name header and records the untyped cell grid per sheet.
func parseSpreadsheet(data []byte) (Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("spreadsheet parsing failed: %w", err)
	}
	defer f.Close()

	var content strings.Builder
	sheetNames := f.GetSheetList()
	sheets := make([]map[string]any, 0, len(sheetNames))

	for _, name := range sheetNames {
		rows, err := f.GetRows(name)
		if err != nil {
			return Result{}, fmt.Errorf("spreadsheet parsing failed: sheet %s: %w", name, err)
		}

		content.WriteString("\n\n=== Sheet: " + name + " ===\n")
		for _, row := range rows {
			content.WriteString(strings.Join(row, ","))
			content.WriteString("\n")
		}

		if rows == nil {
			rows = [][]string{}
		}
		sheets = append(sheets, map[string]any{
			"name": name,
			"rows": rows,
		})
	}

	return Result{
		Raw: content.String(),
		Structured: map[string]any{
			"sheets": sheets,
		},
		Metadata: map[string]any{
			"sheetCount": len(sheetNames),
		},
	}, nil
}
