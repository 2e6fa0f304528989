// Package config provides hierarchical configuration loading for the Boss service.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the service.
type Config struct {
	Server    Server      `yaml:"server"`
	Logging   Logging     `yaml:"logging"`
	Boss      Boss        `yaml:"boss"`
	Breaker   Breaker     `yaml:"breaker"`
	LLM       LLM         `yaml:"llm"`
	Tools     Tools       `yaml:"tools"`
	Telemetry Telemetry   `yaml:"telemetry"`
	Owners    []OwnerSpec `yaml:"owners"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port            string        `yaml:"port"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Boss holds per-round fan-out settings. The loop bound and the coverage
// targets are compiled in and deliberately absent here.
type Boss struct {
	OwnerTimeout time.Duration `yaml:"owner_timeout"` // per-owner deadline (default: 30s)
	MaxParallel  int           `yaml:"max_parallel"`  // concurrent owner calls; 0 = all at once
}

// Breaker holds circuit breaker settings for owners backed by external calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LLM holds provider selection for LLM-backed owners.
type LLM struct {
	Provider        string        `yaml:"provider"` // openai | anthropic | gemini | mock; empty = detect by key
	Model           string        `yaml:"model"`
	OpenAIKey       string        `yaml:"openai_api_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	AnthropicKey    string        `yaml:"anthropic_api_key"`
	AnthropicURL    string        `yaml:"anthropic_url"`
	GoogleKey       string        `yaml:"google_api_key"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
}

// Tools holds attachment extraction limits.
type Tools struct {
	AllowFetch bool          `yaml:"allow_fetch"`
	MaxBytes   int           `yaml:"max_bytes"`
	MaxPages   int           `yaml:"max_pages"`
	MaxChars   int           `yaml:"max_chars"`
	CacheMB    int64         `yaml:"cache_mb"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// Telemetry holds OpenTelemetry export settings. An empty endpoint disables export.
type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	Service      string `yaml:"service"`
}

// OwnerSpec declares one owner in the registry. Kind selects the implementation:
// "rules", "llm" or "unimplemented".
type OwnerSpec struct {
	ID             string           `yaml:"id"`
	Kind           string           `yaml:"kind"`
	Coverage       []string         `yaml:"coverage"`
	Confidence     float64          `yaml:"confidence"`
	Findings       []FindingSpec    `yaml:"findings"`
	CriteriaChecks []CriteriaCheck  `yaml:"criteria_checks"`
	NextActions    []map[string]any `yaml:"next_actions"`
	Persona        string           `yaml:"persona"` // llm only
}

// FindingSpec is a static finding reported by a rules owner.
type FindingSpec struct {
	Area    string         `yaml:"area"`
	Summary string         `yaml:"summary"`
	Details map[string]any `yaml:"details"`
}

// CriteriaCheck adds Gap when no acceptance criterion mentions Keyword.
type CriteriaCheck struct {
	Keyword string `yaml:"keyword"`
	Gap     string `yaml:"gap"`
}

// Defaults returns a Config with sensible defaults for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port: "8000",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:3001",
				"http://127.0.0.1:3001",
			},
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    25 << 20,
		},
		Logging: Logging{
			Level:   "info",
			Service: "boss",
		},
		Boss: Boss{
			OwnerTimeout: 30 * time.Second,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		LLM: LLM{
			HTTPTimeout:     45 * time.Second,
			MaxOutputTokens: 1024,
		},
		Tools: Tools{
			MaxBytes: 20 << 20,
			MaxPages: 20,
			MaxChars: 20000,
			CacheMB:  64,
			CacheTTL: time.Hour,
		},
		Telemetry: Telemetry{
			Service: "boss",
		},
	}
}
