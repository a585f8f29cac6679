package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docpipe/docpipe/constants"
	"github.com/docpipe/docpipe/internal/cache"
	"github.com/docpipe/docpipe/internal/common"
	"github.com/docpipe/docpipe/internal/export"
	"github.com/docpipe/docpipe/internal/llm/openrouter"
	"github.com/docpipe/docpipe/internal/monitor"
	"github.com/docpipe/docpipe/internal/pipeline"
)

// docpipe runs the AI structuring pipeline over already-extracted document
// text (the extraction layer is an upstream collaborator; this binary reads
// plain UTF-8 text).
//
// usage: docpipe <textfile> [shape] [outfile]
//
//	shape:   json (default), csv, or table
//	outfile: written by extension (.json/.csv/.xlsx); stdout JSON otherwise
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: docpipe <textfile> [shape] [outfile]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	text, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read input", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	shape := constants.ShapeJSON
	if len(os.Args) >= 3 {
		shape = constants.NormalizeShape(os.Args[2])
	}
	outPath := ""
	if len(os.Args) >= 4 {
		outPath = os.Args[3]
	}

	client := openrouter.NewClient(openrouter.Config{
		APIKey:        cfg.LLM.APIKey,
		BaseURL:       cfg.LLM.BaseURL,
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		Timeout:       cfg.LLM.Timeout,
		MaxAttempts:   cfg.LLM.MaxAttempts,
		RetryBaseWait: cfg.LLM.RetryBaseWait,
	}, logger)

	rc, err := cache.New(cfg.Cache.Capacity, logger)
	if err != nil {
		logger.Error("create cache", "error", err)
		os.Exit(1)
	}

	metrics := monitor.NewMetrics()
	sampler := monitor.NewSampler(cfg.Monitor.SampleInterval, cfg.Monitor.RingSize, logger)
	sampler.Start()
	defer sampler.Stop()

	proc := pipeline.NewProcessor(client, rc, metrics, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := proc.ProcessDocument(ctx, string(text), []constants.OutputShape{shape}, "")
	if !result.Succeeded {
		logger.Error("pipeline failed", "error", result.Error)
		os.Exit(1)
	}

	svc := export.NewService(logger)
	var out []byte
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".csv":
		out, err = svc.ToCSV(result)
	case ".xlsx":
		out, err = svc.ToXLSX(result)
	default:
		out, err = svc.ToJSON(result)
	}
	if err != nil {
		logger.Error("export result", "error", err)
		os.Exit(1)
	}

	if outPath == "" {
		if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
			logger.Error("write stdout", "error", err)
			os.Exit(1)
		}
	} else {
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			logger.Error("write output", "path", outPath, "error", err)
			os.Exit(1)
		}
		logger.Info("wrote output", "path", outPath, "bytes", len(out))
	}

	sys := sampler.Summary()
	logger.Info("run.summary",
		"tasks", len(metrics.Operations()),
		"cache_hits", result.Metadata.CacheHits,
		"cache_misses", result.Metadata.CacheMisses,
		"cpu_avg", sys.CPUAvg,
		"mem_avg", sys.MemAvg,
		"elapsed_ms", result.Metadata.TotalElapsed.Milliseconds(),
	)
}
