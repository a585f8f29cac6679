package llm

import (
	"encoding/json"
	"strings"

	"github.com/docpipe/docpipe/constants"
)

// Resolve parses the model's raw reply into the requested shape.
//
// Only the json shape is parsed: it is the one shape the rest of the system
// consumes programmatically. csv/table (and anything else) are terminal,
// display-only outputs and come back as the trimmed raw text verbatim.
//
// For json, the substring between the first '{' and the last '}' is parsed
// so a valid object survives surrounding prose; with no braces at all the
// whole reply is attempted. A parse failure degrades to a RawFallback —
// malformed model output never aborts the caller.
func Resolve(raw string, shape constants.OutputShape) any {
	if shape != constants.ShapeJSON {
		return strings.TrimSpace(raw)
	}

	candidate := raw
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		candidate = raw[start : end+1]
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return RawFallback{RawResponse: raw, ParseError: err.Error()}
	}
	return obj
}
