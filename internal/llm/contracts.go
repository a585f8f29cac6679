package llm

import (
	"context"
	"time"

	"github.com/docpipe/docpipe/constants"
)

// ProcessingRequest describes one structuring call. Immutable once built;
// OverrideInstructions, when non-empty, replaces the shape template.
type ProcessingRequest struct {
	DocumentText         string
	TargetShape          constants.OutputShape
	OverrideInstructions string
}

// ProcessingResult is the outcome of one task call. Never mutated after
// return; when Succeeded is false, Payload carries nothing usable and
// callers must branch on Succeeded before touching it.
type ProcessingResult struct {
	Succeeded   bool                  `json:"succeeded"`
	Payload     any                   `json:"payload,omitempty"`
	Shape       constants.OutputShape `json:"shape,omitempty"`
	Model       string                `json:"model_identifier,omitempty"`
	InputLength int                   `json:"input_length"`
	Elapsed     time.Duration         `json:"elapsed"`
	FromCache   bool                  `json:"served_from_cache"`
	Error       string                `json:"error,omitempty"`
}

// RawFallback is a degraded payload returned when the model's reply could
// not be parsed as the requested shape. It preserves the original text for
// diagnosis; it is reported, never thrown.
type RawFallback struct {
	RawResponse string `json:"raw_response"`
	ParseError  string `json:"parse_error"`
}

// EntityBundle holds the named entities extracted from one document.
type EntityBundle struct {
	Persons       []string      `json:"persons"`
	Organizations []string      `json:"organizations"`
	Locations     []string      `json:"locations"`
	Dates         []string      `json:"dates"`
	Numbers       []string      `json:"numbers"`
	Emails        []string      `json:"emails"`
	Phones        []string      `json:"phones"`
	Elapsed       time.Duration `json:"elapsed,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// ClassificationResult holds the model's document classification.
type ClassificationResult struct {
	DocumentType string        `json:"document_type"`
	Confidence   float64       `json:"confidence"` // 0..1
	KeyTopics    []string      `json:"key_topics"`
	Language     string        `json:"language"`
	Sentiment    string        `json:"sentiment"` // positive | negative | neutral
	Elapsed      time.Duration `json:"elapsed,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// SummaryResult holds the model's summary of one document.
type SummaryResult struct {
	Text    string        `json:"text,omitempty"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// ProcessingMetadata describes one full pipeline run.
type ProcessingMetadata struct {
	RequestID    string                              `json:"request_id"`
	Model        string                              `json:"model_identifier"`
	InputLength  int                                 `json:"input_length"`
	Shape        constants.OutputShape               `json:"output_shape"`
	TaskElapsed  map[constants.TaskKind]time.Duration `json:"task_elapsed"`
	TotalElapsed time.Duration                       `json:"total_elapsed"`
	CacheHits    uint64                              `json:"cache_hits"`
	CacheMisses  uint64                              `json:"cache_misses"`
}

// AggregateResult combines the four task outcomes for one document. A
// failure in one slot never blanks out the others.
type AggregateResult struct {
	Succeeded      bool                 `json:"succeeded"`
	StructuredData ProcessingResult     `json:"structured_data"`
	Entities       EntityBundle         `json:"entities"`
	Classification ClassificationResult `json:"classification"`
	Summary        SummaryResult        `json:"summary"`
	Metadata       ProcessingMetadata   `json:"processing_metadata"`
	Error          string               `json:"error,omitempty"`
}

// ChatCaller is the transport the pipeline depends on: one composed prompt
// in, the model's raw text reply out.
type ChatCaller interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
