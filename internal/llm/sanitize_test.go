package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEntityFieldsFillsMissingAndWrapsScalars(t *testing.T) {
	in := []byte(`{"persons":"Alice","organizations":["Acme",42],"notes":"x"}`)

	out, changed, err := SanitizeEntityFields(in)
	require.NoError(t, err)

	var m map[string][]string
	require.NoError(t, json.Unmarshal(out, &m))

	assert.Equal(t, []string{"Alice"}, m["persons"])
	assert.Equal(t, []string{"Acme", "42"}, m["organizations"])
	assert.Empty(t, m["locations"])
	assert.Empty(t, m["phones"])
	assert.NotContains(t, m, "notes")
	assert.NotEmpty(t, changed)

	// the repaired document must pass the schema it was repaired for
	require.NoError(t, ValidateJSONAgainstSchema(BuildEntityJSONSchema(), out))
}

func TestSanitizeClassificationFieldsCoercesConfidence(t *testing.T) {
	in := []byte(`{"document_type":"invoice","confidence":"0.85","key_topics":"billing","language":"en","sentiment":"Positive","extra":1}`)

	out, changed, err := SanitizeClassificationFields(in)
	require.NoError(t, err)
	assert.NotEmpty(t, changed)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, 0.85, m["confidence"])
	assert.Equal(t, "positive", m["sentiment"])
	assert.Equal(t, []any{"billing"}, m["key_topics"])
	assert.NotContains(t, m, "extra")

	require.NoError(t, ValidateJSONAgainstSchema(BuildClassificationJSONSchema(), out))
}

func TestSanitizeClassificationFieldsOffEnumSentimentDegradesToNeutral(t *testing.T) {
	in := []byte(`{"document_type":"report","confidence":1.4,"sentiment":"mixed"}`)

	out, _, err := SanitizeClassificationFields(in)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "neutral", m["sentiment"])
	assert.Equal(t, 1.0, m["confidence"])
	require.NoError(t, ValidateJSONAgainstSchema(BuildClassificationJSONSchema(), out))
}

func TestValidateJSONAgainstSchemaRejectsWrongTypes(t *testing.T) {
	bad := []byte(`{"persons":"not a list","organizations":[],"locations":[],"dates":[],"numbers":[],"emails":[],"phones":[]}`)
	err := ValidateJSONAgainstSchema(BuildEntityJSONSchema(), bad)
	assert.Error(t, err)
}
