package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpipe/docpipe/constants"
)

func TestResolveExtractsObjectAmidProse(t *testing.T) {
	raw := "Sure! Here is your data:\n{\"invoice_number\":\"123\",\"total\":45.00}\nLet me know if you need anything else."

	got := Resolve(raw, constants.ShapeJSON)

	obj, ok := got.(map[string]any)
	require.True(t, ok, "expected a parsed object, got %T", got)
	assert.Equal(t, "123", obj["invoice_number"])
	assert.Equal(t, 45.00, obj["total"])
}

func TestResolveNestedObjectUsesOutermostBraces(t *testing.T) {
	raw := `prefix {"a":{"b":1},"c":2} suffix`

	obj, ok := Resolve(raw, constants.ShapeJSON).(map[string]any)
	require.True(t, ok)
	assert.Contains(t, obj, "a")
	assert.Contains(t, obj, "c")
}

func TestResolveNoBracesReturnsRawFallback(t *testing.T) {
	raw := "I could not find any structured data in the text."

	got := Resolve(raw, constants.ShapeJSON)

	fb, ok := got.(RawFallback)
	require.True(t, ok, "expected RawFallback, got %T", got)
	assert.Equal(t, raw, fb.RawResponse)
	assert.NotEmpty(t, fb.ParseError)
}

func TestResolveBrokenJSONReturnsRawFallback(t *testing.T) {
	raw := `{"invoice_number": "123", "total": }`

	fb, ok := Resolve(raw, constants.ShapeJSON).(RawFallback)
	require.True(t, ok)
	assert.Equal(t, raw, fb.RawResponse)
	assert.NotEmpty(t, fb.ParseError)
}

func TestResolveCSVPassesTrimmedTextThrough(t *testing.T) {
	raw := "  name,total\nAcme,45.00  \n"

	got := Resolve(raw, constants.ShapeCSV)
	assert.Equal(t, "name,total\nAcme,45.00", got)
}

func TestResolveTableShapeIsNotValidated(t *testing.T) {
	raw := "| a | b |\n| 1 | 2 |"

	got := Resolve(raw, constants.ShapeTable)
	assert.Equal(t, raw, got)
}
