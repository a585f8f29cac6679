package openrouter

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the OpenRouter client. Zero values fall back to the defaults
// below; the API key falls back to env OPENROUTER_API_KEY and is never
// written into source.
type Config struct {
	APIKey        string        // if empty, falls back to env OPENROUTER_API_KEY
	BaseURL       string        // default https://openrouter.ai/api/v1
	Model         string        // e.g. "deepseek/deepseek-r1-0528-qwen3-8b:free"
	Temperature   float32       // default 0.1, low for deterministic output
	MaxTokens     int           // default 4000
	Timeout       time.Duration // upper bound on one HTTP attempt
	MaxAttempts   int           // total attempts incl. the first, default 3
	RetryBaseWait time.Duration // backoff base, default 1s
	MaxIdleConns  int           // connection pool upper bound, default 20
}

// Client talks to an OpenRouter-compatible chat-completions endpoint over a
// pooled set of persistent connections.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek/deepseek-r1-0528-qwen3-8b:free"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseWait <= 0 {
		cfg.RetryBaseWait = time.Second
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 20
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout, Transport: transport},
		logger: logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}
