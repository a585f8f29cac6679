package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docpipe/docpipe/constants"
)

func TestBuildStructurePromptUsesShapeTemplate(t *testing.T) {
	req := ProcessingRequest{
		DocumentText: "Invoice #123",
		TargetShape:  constants.ShapeCSV,
	}
	prompt := BuildStructurePrompt(req)

	assert.Contains(t, prompt, "convert unstructured text into CSV format")
	assert.Contains(t, prompt, "Raw Text to Structure:\nInvoice #123")
	assert.Contains(t, prompt, "structured data in CSV format")
}

func TestBuildStructurePromptOverrideReplacesTemplate(t *testing.T) {
	req := ProcessingRequest{
		DocumentText:         "some text",
		TargetShape:          constants.ShapeJSON,
		OverrideInstructions: "Extract only the line items.",
	}
	prompt := BuildStructurePrompt(req)

	assert.True(t, strings.HasPrefix(prompt, "Extract only the line items."))
	assert.NotContains(t, prompt, "data structuring expert")
	// the closing directive still names the shape in upper case
	assert.Contains(t, prompt, "in JSON format")
}

func TestBuildStructurePromptUnknownShapeFallsBackToJSON(t *testing.T) {
	req := ProcessingRequest{
		DocumentText: "x",
		TargetShape:  constants.OutputShape("yaml"),
	}
	prompt := BuildStructurePrompt(req)

	assert.Contains(t, prompt, "well-structured JSON data")
	assert.Contains(t, prompt, "in YAML format")
}

func TestBuildEntityPromptCarriesSkeleton(t *testing.T) {
	prompt := BuildEntityPrompt("Alice met Bob.")

	for _, key := range []string{"persons", "organizations", "locations", "dates", "numbers", "emails", "phones"} {
		assert.Contains(t, prompt, `"`+key+`"`)
	}
	assert.Contains(t, prompt, "Alice met Bob.")
	assert.Contains(t, prompt, "Return only valid JSON.")
}

func TestBuildSummaryPromptBoundsWords(t *testing.T) {
	prompt := BuildSummaryPrompt("long text", 200)
	assert.Contains(t, prompt, "in 200 words or less")
	assert.Contains(t, prompt, "long text")
}
