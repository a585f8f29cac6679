package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/docpipe/docpipe/constants"
	"github.com/docpipe/docpipe/internal/cache"
	"github.com/docpipe/docpipe/internal/llm"
	"github.com/docpipe/docpipe/internal/monitor"
)

// DefaultSummaryWords bounds the summary task when the caller passes no limit.
const DefaultSummaryWords = 200

// Processor runs the four derived model tasks against document text. Every
// public entry point follows the same contract: an internal fault is
// caught, logged, and returned as data (Succeeded=false plus a message) —
// never propagated. Each task result is memoized behind the injected cache.
type Processor struct {
	caller  llm.ChatCaller
	cache   *cache.ResultCache
	metrics *monitor.Metrics
	logger  *slog.Logger
}

// NewProcessor wires the processor's collaborators explicitly: the transport
// caller and cache are owned by the caller of this constructor, so lifetime
// and scope stay visible. metrics may be nil.
func NewProcessor(caller llm.ChatCaller, rc *cache.ResultCache, metrics *monitor.Metrics, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{caller: caller, cache: rc, metrics: metrics, logger: logger}
}

// Cache exposes the processor's result cache for operator actions
// (Clear, Stats).
func (p *Processor) Cache() *cache.ResultCache {
	return p.cache
}

// Structure converts the request's document text into the requested shape.
func (p *Processor) Structure(ctx context.Context, req llm.ProcessingRequest) llm.ProcessingResult {
	if strings.TrimSpace(req.DocumentText) == "" {
		return p.failed(constants.TaskStructure, req.TargetShape, 0, 0, "no text content to process")
	}
	shape := constants.NormalizeShape(string(req.TargetShape))
	if shape == "" {
		shape = constants.ShapeJSON
	}
	req.TargetShape = shape

	key := cache.Fingerprint(string(constants.TaskStructure), string(shape), req.OverrideInstructions, req.DocumentText)
	return p.cache.GetOrCompute(key, func() llm.ProcessingResult {
		return p.runTask(ctx, constants.TaskStructure, llm.BuildStructurePrompt(req), shape, len(req.DocumentText))
	})
}

// ExtractEntities pulls named entities out of the text.
func (p *Processor) ExtractEntities(ctx context.Context, text string) llm.EntityBundle {
	res := p.jsonTask(ctx, constants.TaskEntities, text, llm.BuildEntityPrompt(text))

	var bundle llm.EntityBundle
	decodePayload(res, &bundle)
	bundle.Elapsed = res.Elapsed
	return bundle
}

// Classify determines document type, topics, language, and sentiment.
func (p *Processor) Classify(ctx context.Context, text string) llm.ClassificationResult {
	res := p.jsonTask(ctx, constants.TaskClassify, text, llm.BuildClassificationPrompt(text))

	var cls llm.ClassificationResult
	decodePayload(res, &cls)
	cls.Elapsed = res.Elapsed
	return cls
}

// Summarize produces a freeform summary bounded to maxWords (default 200).
func (p *Processor) Summarize(ctx context.Context, text string, maxWords int) llm.SummaryResult {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}
	key := cache.Fingerprint(string(constants.TaskSummarize), text, strconv.Itoa(maxWords))
	res := p.cache.GetOrCompute(key, func() llm.ProcessingResult {
		return p.runTask(ctx, constants.TaskSummarize, llm.BuildSummaryPrompt(text, maxWords), "", len(text))
	})

	out := llm.SummaryResult{Elapsed: res.Elapsed, Error: res.Error}
	if res.Succeeded {
		if s, ok := res.Payload.(string); ok {
			out.Text = s
		}
	}
	return out
}

// jsonTask runs one cached JSON-shaped task (entities, classification).
func (p *Processor) jsonTask(ctx context.Context, kind constants.TaskKind, text, prompt string) llm.ProcessingResult {
	key := cache.Fingerprint(string(kind), text)
	return p.cache.GetOrCompute(key, func() llm.ProcessingResult {
		return p.runTask(ctx, kind, prompt, constants.ShapeJSON, len(text))
	})
}

// runTask is the single remote round trip: prompt out, resolved payload
// back, failure converted to a failed result. This is the failure-envelope
// boundary — no error ever crosses it.
func (p *Processor) runTask(ctx context.Context, kind constants.TaskKind, prompt string, shape constants.OutputShape, inputLen int) llm.ProcessingResult {
	start := time.Now()

	reply, err := p.caller.Complete(ctx, prompt)
	if err != nil {
		elapsed := time.Since(start)
		p.logger.Error("pipeline.task.failed",
			"task", kind, "error", err, "elapsed_ms", elapsed.Milliseconds())
		p.record(kind, start, elapsed, false, err.Error())
		return p.failed(kind, shape, inputLen, elapsed, err.Error())
	}

	payload := llm.Resolve(reply, shape)
	if m, ok := payload.(map[string]any); ok {
		if schema := llm.SchemaFor(kind); schema != nil {
			payload = p.reconcile(kind, schema, m, reply)
		}
	}
	if fb, ok := payload.(llm.RawFallback); ok {
		p.logger.Warn("pipeline.task.raw_fallback", "task", kind, "parse_error", fb.ParseError)
	}

	elapsed := time.Since(start)
	p.record(kind, start, elapsed, true, "")
	p.logger.Info("pipeline.task.ok",
		"task", kind, "input_len", inputLen, "elapsed_ms", elapsed.Milliseconds())
	return llm.ProcessingResult{
		Succeeded:   true,
		Payload:     payload,
		Shape:       shape,
		Model:       p.caller.Model(),
		InputLength: inputLen,
		Elapsed:     elapsed,
	}
}

// reconcile validates a JSON-task payload against its schema, repairing the
// usual offenders once before giving up. Validation failure degrades to a
// RawFallback, mirroring the parse path: reported, never fatal.
func (p *Processor) reconcile(kind constants.TaskKind, schema map[string]any, m map[string]any, reply string) any {
	raw, err := json.Marshal(m)
	if err != nil {
		return llm.RawFallback{RawResponse: reply, ParseError: err.Error()}
	}
	if err := llm.ValidateJSONAgainstSchema(schema, raw); err == nil {
		return m
	}

	var cleaned []byte
	var changed []string
	var sErr error
	switch kind {
	case constants.TaskEntities:
		cleaned, changed, sErr = llm.SanitizeEntityFields(raw)
	case constants.TaskClassify:
		cleaned, changed, sErr = llm.SanitizeClassificationFields(raw)
	}
	if sErr != nil {
		p.logger.Warn("pipeline.task.sanitize_failed", "task", kind, "error", sErr)
		return llm.RawFallback{RawResponse: reply, ParseError: sErr.Error()}
	}
	if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
		p.logger.Warn("pipeline.task.schema_mismatch", "task", kind, "error", vErr)
		return llm.RawFallback{RawResponse: reply, ParseError: vErr.Error()}
	}
	if len(changed) > 0 {
		p.logger.Warn("pipeline.task.lenient_sanitize_applied", "task", kind, "changed", changed)
	}

	var out map[string]any
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return llm.RawFallback{RawResponse: reply, ParseError: err.Error()}
	}
	return out
}

func (p *Processor) failed(kind constants.TaskKind, shape constants.OutputShape, inputLen int, elapsed time.Duration, msg string) llm.ProcessingResult {
	return llm.ProcessingResult{
		Succeeded:   false,
		Shape:       shape,
		Model:       p.caller.Model(),
		InputLength: inputLen,
		Elapsed:     elapsed,
		Error:       msg,
	}
}

func (p *Processor) record(kind constants.TaskKind, start time.Time, elapsed time.Duration, ok bool, errMsg string) {
	if p.metrics != nil {
		p.metrics.Record(string(kind), start, elapsed, ok, errMsg)
	}
}

// decodePayload moves a validated map payload into a typed sub-result; a
// failed call or a RawFallback lands in the Error field instead.
func decodePayload(res llm.ProcessingResult, target any) {
	setError := func(msg string) {
		switch t := target.(type) {
		case *llm.EntityBundle:
			t.Error = msg
		case *llm.ClassificationResult:
			t.Error = msg
		}
	}

	if !res.Succeeded {
		setError(res.Error)
		return
	}
	switch payload := res.Payload.(type) {
	case llm.RawFallback:
		setError(payload.ParseError)
	case map[string]any:
		b, err := json.Marshal(payload)
		if err != nil {
			setError(err.Error())
			return
		}
		if err := json.Unmarshal(b, target); err != nil {
			setError(err.Error())
		}
	default:
		setError("unexpected payload type")
	}
}
