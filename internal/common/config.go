package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig
	Cache   CacheConfig
	Monitor MonitorConfig
}

// LLMConfig holds model-endpoint configuration. The API key is sourced from
// the environment only; it is never embedded in source or defaults.
type LLMConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float32
	MaxTokens     int
	Timeout       time.Duration
	MaxAttempts   int
	RetryBaseWait time.Duration
}

// CacheConfig holds result-cache configuration.
type CacheConfig struct {
	Capacity int
}

// MonitorConfig holds resource-sampler configuration.
type MonitorConfig struct {
	SampleInterval time.Duration
	RingSize       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			APIKey:        getEnv("OPENROUTER_API_KEY", ""),
			BaseURL:       getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:         getEnv("LLM_MODEL", "deepseek/deepseek-r1-0528-qwen3-8b:free"),
			Temperature:   getEnvAsFloat32("LLM_TEMPERATURE", 0.1),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 4000),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			MaxAttempts:   getEnvAsInt("LLM_MAX_ATTEMPTS", 3),
			RetryBaseWait: getEnvAsDuration("LLM_RETRY_BASE_WAIT", time.Second),
		},
		Cache: CacheConfig{
			Capacity: getEnvAsInt("CACHE_CAPACITY", 512),
		},
		Monitor: MonitorConfig{
			SampleInterval: getEnvAsDuration("MONITOR_INTERVAL", time.Second),
			RingSize:       getEnvAsInt("MONITOR_RING_SIZE", 1000),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENROUTER_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "LLM_BASE_URL is required", ErrInvalidInput)
	}
	if c.LLM.MaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "LLM_MAX_ATTEMPTS must be at least 1", ErrInvalidInput)
	}
	if c.Cache.Capacity < 1 {
		return NewAppError("CONFIG_ERROR", "CACHE_CAPACITY must be at least 1", ErrInvalidInput)
	}
	return nil
}
