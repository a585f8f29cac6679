package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpipe/docpipe/constants"
	"github.com/docpipe/docpipe/internal/llm"
)

func TestProcessDocumentEmptyInputMakesNoRemoteCalls(t *testing.T) {
	p, caller := newTestProcessor(t, routeByPrompt)

	res := p.ProcessDocument(context.Background(), "", nil, "")
	assert.False(t, res.Succeeded)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, 0, caller.calls)
}

func TestProcessDocumentRunsAllFourTasks(t *testing.T) {
	p, caller := newTestProcessor(t, routeByPrompt)

	res := p.ProcessDocument(context.Background(),
		"Invoice #123, Total: $45.00, Date: 2024-01-01",
		[]constants.OutputShape{constants.ShapeJSON}, "")

	require.True(t, res.Succeeded)
	assert.Equal(t, 4, caller.calls)

	require.True(t, res.StructuredData.Succeeded)
	obj, ok := res.StructuredData.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "123", obj["invoice_number"])

	assert.Equal(t, []string{"Alice"}, res.Entities.Persons)
	assert.Equal(t, "invoice", res.Classification.DocumentType)
	assert.Equal(t, "neutral", res.Classification.Sentiment)
	assert.NotEmpty(t, res.Summary.Text)

	md := res.Metadata
	assert.Equal(t, "test-model", md.Model)
	assert.Equal(t, constants.ShapeJSON, md.Shape)
	assert.Equal(t, len("Invoice #123, Total: $45.00, Date: 2024-01-01"), md.InputLength)
	assert.Len(t, md.TaskElapsed, 4)
	assert.Equal(t, uint64(4), md.CacheMisses)
	assert.NotEmpty(t, md.RequestID)
}

func TestProcessDocumentEntityFailureDoesNotAbortOthers(t *testing.T) {
	p, _ := newTestProcessor(t, func(prompt string) (string, error) {
		if strings.Contains(prompt, "Extract named entities") {
			return "", &llm.TransportError{Cause: errors.New("connection reset")}
		}
		return routeByPrompt(prompt)
	})

	res := p.ProcessDocument(context.Background(), "some document text", nil, "")
	require.True(t, res.Succeeded, "one failed task must not blank out the run")

	assert.NotEmpty(t, res.Entities.Error)
	assert.Contains(t, res.Entities.Error, "connection reset")
	assert.Empty(t, res.Entities.Persons)

	// the other three slots are populated normally
	assert.True(t, res.StructuredData.Succeeded)
	assert.Equal(t, "invoice", res.Classification.DocumentType)
	assert.Equal(t, summaryReply, res.Summary.Text)
}

func TestProcessDocumentDefaultsToJSONShape(t *testing.T) {
	p, _ := newTestProcessor(t, routeByPrompt)

	res := p.ProcessDocument(context.Background(), "text", nil, "")
	require.True(t, res.Succeeded)
	assert.Equal(t, constants.ShapeJSON, res.Metadata.Shape)
	assert.Equal(t, constants.ShapeJSON, res.StructuredData.Shape)
}

func TestProcessDocumentUsesFirstShape(t *testing.T) {
	p, _ := newTestProcessor(t, func(string) (string, error) { return "a,b\n1,2", nil })

	res := p.ProcessDocument(context.Background(), "text",
		[]constants.OutputShape{constants.ShapeCSV, constants.ShapeJSON}, "")
	require.True(t, res.Succeeded)
	assert.Equal(t, constants.ShapeCSV, res.Metadata.Shape)
	assert.Equal(t, "a,b\n1,2", res.StructuredData.Payload)
}

func TestProcessDocumentSecondRunIsFullyCached(t *testing.T) {
	p, caller := newTestProcessor(t, routeByPrompt)
	text := "Invoice #123, Total: $45.00, Date: 2024-01-01"

	first := p.ProcessDocument(context.Background(), text, nil, "")
	require.True(t, first.Succeeded)
	require.Equal(t, 4, caller.calls)

	second := p.ProcessDocument(context.Background(), text, nil, "")
	require.True(t, second.Succeeded)
	assert.Equal(t, 4, caller.calls, "repeat run must be served from cache")
	assert.True(t, second.StructuredData.FromCache)
	assert.Equal(t, uint64(4), second.Metadata.CacheHits)
	assert.Equal(t, first.StructuredData.Payload, second.StructuredData.Payload)
}
