package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docpipe/docpipe/constants"
	"github.com/docpipe/docpipe/internal/llm"
)

func sampleResult() llm.AggregateResult {
	return llm.AggregateResult{
		Succeeded: true,
		StructuredData: llm.ProcessingResult{
			Succeeded: true,
			Payload:   map[string]any{"invoice_number": "123", "total": 45.0},
			Shape:     constants.ShapeJSON,
			Elapsed:   120 * time.Millisecond,
		},
		Entities: llm.EntityBundle{
			Persons:       []string{"Alice"},
			Organizations: []string{"Acme Corp"},
			Elapsed:       80 * time.Millisecond,
		},
		Classification: llm.ClassificationResult{
			DocumentType: "invoice",
			Confidence:   0.9,
			Language:     "en",
			Sentiment:    "neutral",
			Elapsed:      60 * time.Millisecond,
		},
		Summary: llm.SummaryResult{
			Text:    "An invoice for $45.00.",
			Elapsed: 40 * time.Millisecond,
		},
		Metadata: llm.ProcessingMetadata{
			RequestID:    "req-1",
			Model:        "test-model",
			InputLength:  42,
			Shape:        constants.ShapeJSON,
			TotalElapsed: 300 * time.Millisecond,
			CacheHits:    1,
			CacheMisses:  4,
		},
	}
}

func TestToJSONCarriesAllSections(t *testing.T) {
	s := NewService(nil)
	b, err := s.ToJSON(sampleResult())
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, `"invoice_number": "123"`)
	assert.Contains(t, out, `"document_type": "invoice"`)
	assert.Contains(t, out, "An invoice for $45.00.")
	assert.Contains(t, out, `"model_identifier": "test-model"`)
	assert.Contains(t, out, `"served_from_cache"`)
}

func TestToCSVOneRowPerTask(t *testing.T) {
	s := NewService(nil)
	b, err := s.ToCSV(sampleResult())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus one row per task")

	assert.Equal(t, []string{"Task", "Status", "Elapsed (ms)", "Details"}, rows[0])
	assert.Equal(t, "structure", rows[1][0])
	assert.Equal(t, "ok", rows[1][1])
	assert.Equal(t, "120", rows[1][2])
	assert.Equal(t, "extract_entities", rows[2][0])
	assert.Contains(t, rows[2][3], "persons=1")
	assert.Equal(t, "classify", rows[3][0])
	assert.Contains(t, rows[3][3], "invoice")
	assert.Equal(t, "summarize", rows[4][0])
}

func TestToCSVFailedTaskShowsErrorDetail(t *testing.T) {
	res := sampleResult()
	res.Entities = llm.EntityBundle{Error: "remote status 503"}

	s := NewService(nil)
	b, err := s.ToCSV(res)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "failed", rows[2][1])
	assert.Equal(t, "remote status 503", rows[2][3])
}

func TestToXLSXProducesReadableWorkbook(t *testing.T) {
	s := NewService(nil)
	b, err := s.ToXLSX(sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	a1, err := f.GetCellValue("Results", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Task", a1)

	a2, _ := f.GetCellValue("Results", "A2")
	assert.Equal(t, "structure", a2)

	// metadata block sits one blank row under the four task rows
	model, _ := f.GetCellValue("Results", "B7")
	assert.Equal(t, "test-model", model)
}
