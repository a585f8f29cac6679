package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docpipe/docpipe/internal/llm"
)

// Service serializes aggregate pipeline results for downstream consumers.
// It reads the result; it never mutates it.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ToJSON renders the full aggregate result as indented JSON.
func (s *Service) ToJSON(res llm.AggregateResult) ([]byte, error) {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return b, nil
}

// ToCSV renders a flat task/status/elapsed/detail table.
func (s *Service) ToCSV(res llm.AggregateResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Task", "Status", "Elapsed (ms)", "Details"}); err != nil {
		return nil, fmt.Errorf("csv write header: %w", err)
	}
	for _, row := range taskRows(res) {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// ToXLSX returns an XLSX workbook (as bytes) with one row per task plus the
// run metadata.
func (s *Service) ToXLSX(res llm.AggregateResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Results"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Task", "Status", "Elapsed (ms)", "Details"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for _, r := range taskRows(res) {
		for i, v := range r {
			write(i+1, v)
		}
		row++
	}

	// metadata block under the task rows
	row++
	write(1, "Model")
	write(2, res.Metadata.Model)
	row++
	write(1, "Input length")
	write(2, res.Metadata.InputLength)
	row++
	write(1, "Total elapsed (ms)")
	write(2, res.Metadata.TotalElapsed.Milliseconds())
	row++
	write(1, "Cache hits / misses")
	write(2, fmt.Sprintf("%d / %d", res.Metadata.CacheHits, res.Metadata.CacheMisses))

	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 14)
	_ = f.SetColWidth(sheet, "D", "D", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"request_id", res.Metadata.RequestID,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func taskRows(res llm.AggregateResult) [][]string {
	structuredDetail := res.StructuredData.Error
	if res.StructuredData.Succeeded {
		structuredDetail = payloadPreview(res.StructuredData.Payload)
	}

	return [][]string{
		{"structure", statusLabel(res.StructuredData.Succeeded),
			ms(res.StructuredData.Elapsed), truncate(structuredDetail, 500)},
		{"extract_entities", statusLabel(res.Entities.Error == ""),
			ms(res.Entities.Elapsed), truncate(entityPreview(res.Entities), 500)},
		{"classify", statusLabel(res.Classification.Error == ""),
			ms(res.Classification.Elapsed), truncate(classificationPreview(res.Classification), 500)},
		{"summarize", statusLabel(res.Summary.Error == ""),
			ms(res.Summary.Elapsed), truncate(firstNonEmpty(res.Summary.Text, res.Summary.Error), 500)},
	}
}

func payloadPreview(payload any) string {
	switch t := payload.(type) {
	case string:
		return t
	case llm.RawFallback:
		return "unparsed: " + t.ParseError
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

func entityPreview(e llm.EntityBundle) string {
	if e.Error != "" {
		return e.Error
	}
	parts := []string{
		fmt.Sprintf("persons=%d", len(e.Persons)),
		fmt.Sprintf("organizations=%d", len(e.Organizations)),
		fmt.Sprintf("locations=%d", len(e.Locations)),
		fmt.Sprintf("dates=%d", len(e.Dates)),
		fmt.Sprintf("numbers=%d", len(e.Numbers)),
		fmt.Sprintf("emails=%d", len(e.Emails)),
		fmt.Sprintf("phones=%d", len(e.Phones)),
	}
	return strings.Join(parts, ", ")
}

func classificationPreview(c llm.ClassificationResult) string {
	if c.Error != "" {
		return c.Error
	}
	return fmt.Sprintf("%s (confidence %.2f, %s, %s)", c.DocumentType, c.Confidence, c.Language, c.Sentiment)
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%d", d.Milliseconds())
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
