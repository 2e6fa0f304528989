package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "boss.yaml"

// DefaultEnvFile is loaded into the process environment before env overrides apply.
const DefaultEnvFile = ".env"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// Both the YAML file and the .env file are optional.
func Load() (*Config, error) {
	path := DefaultConfigFile
	if v := os.Getenv("BOSS_CONFIG"); v != "" {
		path = v
	}
	return LoadFrom(path, DefaultEnvFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. Variables in envPath are added to the
// process environment first without overriding ones already set.
func LoadFrom(yamlPath, envPath string) (*Config, error) {
	if err := loadDotEnv(envPath); err != nil {
		return nil, fmt.Errorf("config env file: %w", err)
	}

	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Port, "BOSS_PORT")
	setList(&cfg.Server.CORSOrigins, "BOSS_CORS_ORIGINS")
	setDuration(&cfg.Server.ReadTimeout, "BOSS_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "BOSS_WRITE_TIMEOUT")
	setInt64(&cfg.Server.MaxBodyBytes, "BOSS_MAX_BODY_BYTES")

	setString(&cfg.Logging.Level, "BOSS_LOG_LEVEL")
	setString(&cfg.Logging.Service, "BOSS_LOG_SERVICE")

	setDuration(&cfg.Boss.OwnerTimeout, "BOSS_OWNER_TIMEOUT")
	setInt(&cfg.Boss.MaxParallel, "BOSS_MAX_PARALLEL")

	setInt(&cfg.Breaker.MaxFailures, "BOSS_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "BOSS_BREAKER_TIMEOUT")

	// LLM providers keep their conventional variable names.
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.OpenAIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.OpenAIBaseURL, "OPENAI_API_BASE")
	setString(&cfg.LLM.AnthropicKey, "ANTHROPIC_API_KEY")
	setString(&cfg.LLM.AnthropicURL, "ANTHROPIC_API_URL")
	setString(&cfg.LLM.GoogleKey, "GOOGLE_API_KEY")
	setDuration(&cfg.LLM.HTTPTimeout, "LLM_HTTP_TIMEOUT")

	setBool(&cfg.Tools.AllowFetch, "BOSS_TOOLS_ALLOW_FETCH")
	setInt(&cfg.Tools.MaxBytes, "BOSS_TOOLS_MAX_BYTES")
	setInt(&cfg.Tools.MaxPages, "BOSS_TOOLS_MAX_PAGES")
	setInt(&cfg.Tools.MaxChars, "BOSS_TOOLS_MAX_CHARS")
	setInt64(&cfg.Tools.CacheMB, "BOSS_TOOLS_CACHE_MB")
	setDuration(&cfg.Tools.CacheTTL, "BOSS_TOOLS_CACHE_TTL")

	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.Telemetry.Insecure, "BOSS_OTLP_INSECURE")
	setString(&cfg.Telemetry.Service, "OTEL_SERVICE_NAME")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Boss.OwnerTimeout <= 0 {
		return errors.New("boss.owner_timeout must be > 0")
	}
	if cfg.Boss.MaxParallel < 0 {
		return errors.New("boss.max_parallel must be >= 0")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Tools.MaxBytes < 1 {
		return errors.New("tools.max_bytes must be >= 1")
	}
	if cfg.Tools.CacheMB < 0 {
		return errors.New("tools.cache_mb must be >= 0")
	}
	seen := make(map[string]struct{}, len(cfg.Owners))
	for i, o := range cfg.Owners {
		if strings.TrimSpace(o.ID) == "" {
			return fmt.Errorf("owners[%d].id is required", i)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("owners[%d].id %q is duplicated", i, o.ID)
		}
		seen[o.ID] = struct{}{}
		if o.Confidence < 0 || o.Confidence > 1 {
			return fmt.Errorf("owners[%d].confidence must be within [0,1]", i)
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
