package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docpipe/docpipe/constants"
	"github.com/docpipe/docpipe/internal/llm"
)

// ProcessDocument runs the full pipeline against one document's extracted
// text: structure (primary shape), extract entities, classify, summarize —
// strictly in that order, each memoized independently. A failure in one
// task lands in that task's error slot and never aborts the rest. Empty
// input fails immediately with no remote call made.
func (p *Processor) ProcessDocument(ctx context.Context, text string, shapes []constants.OutputShape, overrideInstructions string) llm.AggregateResult {
	rid := uuid.New().String()
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		p.logger.Error("pipeline.document.empty_input", "req_id", rid)
		return llm.AggregateResult{
			Succeeded: false,
			Error:     "no text content found in extracted data",
			Metadata:  llm.ProcessingMetadata{RequestID: rid, Model: p.caller.Model()},
		}
	}

	// Exactly one shape drives the primary structuring call.
	shape := constants.ShapeJSON
	if len(shapes) > 0 {
		shape = shapes[0]
	}

	p.logger.Info("pipeline.document.start",
		"req_id", rid, "input_len", len(text), "shape", shape)

	structured := p.Structure(ctx, llm.ProcessingRequest{
		DocumentText:         text,
		TargetShape:          shape,
		OverrideInstructions: overrideInstructions,
	})
	entities := p.ExtractEntities(ctx, text)
	classification := p.Classify(ctx, text)
	summary := p.Summarize(ctx, text, DefaultSummaryWords)

	total := time.Since(start)
	stats := p.cache.Stats()

	p.logger.Info("pipeline.document.ok",
		"req_id", rid,
		"structured_ok", structured.Succeeded,
		"entities_ok", entities.Error == "",
		"classification_ok", classification.Error == "",
		"summary_ok", summary.Error == "",
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses,
		"elapsed_ms", total.Milliseconds(),
	)

	return llm.AggregateResult{
		Succeeded:      true,
		StructuredData: structured,
		Entities:       entities,
		Classification: classification,
		Summary:        summary,
		Metadata: llm.ProcessingMetadata{
			RequestID:   rid,
			Model:       p.caller.Model(),
			InputLength: len(text),
			Shape:       shape,
			TaskElapsed: map[constants.TaskKind]time.Duration{
				constants.TaskStructure: structured.Elapsed,
				constants.TaskEntities:  entities.Elapsed,
				constants.TaskClassify:  classification.Elapsed,
				constants.TaskSummarize: summary.Elapsed,
			},
			TotalElapsed: total,
			CacheHits:    stats.Hits,
			CacheMisses:  stats.Misses,
		},
	}
}
