package parse

import "strings"

// parseText decodes the payload as UTF-8 text. It never fails.
func parseText(data []byte) Result {
	text := string(data)
	return Result{
		Raw: text,
		Metadata: map[string]any{
			"wordCount": countWords(text),
			"lineCount": strings.Count(text, "\n") + 1,
		},
	}
}
