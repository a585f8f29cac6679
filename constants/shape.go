package constants

import "strings"

// OutputShape is the requested output format for the structuring task.
type OutputShape string

const (
	ShapeJSON  OutputShape = "json"
	ShapeCSV   OutputShape = "csv"
	ShapeTable OutputShape = "table"
)

// Shapes holds the allowed output shapes.
var Shapes = []OutputShape{ShapeJSON, ShapeCSV, ShapeTable}

// NormalizeShape lowercases and trims a shape label. Unknown labels are
// returned as-is; the prompt builder falls back to the JSON template for
// anything it does not recognize.
func NormalizeShape(s string) OutputShape {
	return OutputShape(strings.ToLower(strings.TrimSpace(s)))
}
