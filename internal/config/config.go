// README: Config loader with env defaults for HTTP, DB, Redis, AI, Maps, analysis and enrichment settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"guardian/internal/parser"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type AnalysisConfig struct {
	// ConfidenceThreshold is the minimum detection confidence that still routes
	// to an analyzer. Detections strictly below it get the fallback report.
	ConfidenceThreshold float64
	Timeout             time.Duration
	MaxRetries          int
	RetryDelay          time.Duration
	// ParserMode selects how model replies are decoded: lenient or strict.
	ParserMode string
}

type EnrichmentConfig struct {
	BatchSize   int
	BatchPause  time.Duration
	CallTimeout time.Duration
	Language    string
}

type PlaceCacheConfig struct {
	Backend string
	TTL     time.Duration
	Prefix  string
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	AI struct {
		Provider    string
		GeminiKey   string
		GeminiModel string
		OpenAIKey   string
		OpenAIURL   string
		OpenAIModel string
	}
	Maps struct {
		APIKey string
	}
	Analysis   AnalysisConfig
	Enrichment EnrichmentConfig
	PlaceCache PlaceCacheConfig
}

// bindings maps viper keys to the environment variables that feed them.
var bindings = map[string]string{
	"http.addr":                     "GUARDIAN_HTTP_ADDR",
	"db.dsn":                        "GUARDIAN_DB_DSN",
	"redis.addr":                    "GUARDIAN_REDIS_ADDR",
	"redis.password":                "GUARDIAN_REDIS_PASSWORD",
	"redis.db":                      "GUARDIAN_REDIS_DB",
	"log.level":                     "LOG_LEVEL",
	"log.format":                    "LOG_FORMAT",
	"ai.provider":                   "LLM_PROVIDER",
	"ai.gemini_key":                 "GEMINI_API_KEY",
	"ai.gemini_model":               "GEMINI_MODEL",
	"ai.openai_key":                 "OPENAI_API_KEY",
	"ai.openai_url":                 "OPENAI_BASE_URL",
	"ai.openai_model":               "OPENAI_MODEL",
	"maps.api_key":                  "GOOGLE_MAPS_API_KEY",
	"analysis.confidence_threshold": "ANALYSIS_CONFIDENCE_THRESHOLD",
	"analysis.timeout":              "ANALYSIS_TIMEOUT",
	"analysis.max_retries":          "ANALYSIS_MAX_RETRIES",
	"analysis.retry_delay":          "ANALYSIS_RETRY_DELAY",
	"analysis.parser_mode":          "PARSER_MODE",
	"enrich.batch_size":             "ENRICH_BATCH_SIZE",
	"enrich.batch_pause":            "ENRICH_BATCH_PAUSE",
	"enrich.call_timeout":           "ENRICH_CALL_TIMEOUT",
	"enrich.language":               "ENRICH_LANGUAGE",
	"place_cache.backend":           "PLACE_CACHE_BACKEND",
	"place_cache.ttl":               "PLACE_CACHE_TTL",
	"place_cache.prefix":            "PLACE_CACHE_PREFIX",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.gemini_model", "gemini-2.0-flash")
	v.SetDefault("ai.openai_url", "https://api.openai.com/v1")
	v.SetDefault("ai.openai_model", "gpt-4o-mini")
	v.SetDefault("analysis.confidence_threshold", 0.3)
	v.SetDefault("analysis.timeout", 60*time.Second)
	v.SetDefault("analysis.max_retries", 3)
	v.SetDefault("analysis.retry_delay", time.Second)
	v.SetDefault("analysis.parser_mode", parser.ModeLenient)
	v.SetDefault("enrich.batch_size", 3)
	v.SetDefault("enrich.batch_pause", 200*time.Millisecond)
	v.SetDefault("enrich.call_timeout", 10*time.Second)
	v.SetDefault("enrich.language", "en")
	v.SetDefault("place_cache.backend", CacheBackendMemory)
	v.SetDefault("place_cache.ttl", time.Duration(0))
	v.SetDefault("place_cache.prefix", "places:details:")
}

// Load reads the optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(viper.New())
}

// LoadFrom builds a Config from an existing viper instance. Tests use it to
// inject values with v.Set without touching the environment.
func LoadFrom(v *viper.Viper) (Config, error) {
	setDefaults(v)
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.AI.Provider = strings.ToLower(v.GetString("ai.provider"))
	cfg.AI.GeminiKey = v.GetString("ai.gemini_key")
	cfg.AI.GeminiModel = v.GetString("ai.gemini_model")
	cfg.AI.OpenAIKey = v.GetString("ai.openai_key")
	cfg.AI.OpenAIURL = v.GetString("ai.openai_url")
	cfg.AI.OpenAIModel = v.GetString("ai.openai_model")
	cfg.Maps.APIKey = v.GetString("maps.api_key")
	cfg.Analysis = AnalysisConfig{
		ConfidenceThreshold: v.GetFloat64("analysis.confidence_threshold"),
		Timeout:             v.GetDuration("analysis.timeout"),
		MaxRetries:          v.GetInt("analysis.max_retries"),
		RetryDelay:          v.GetDuration("analysis.retry_delay"),
		ParserMode:          strings.ToLower(v.GetString("analysis.parser_mode")),
	}
	cfg.Enrichment = EnrichmentConfig{
		BatchSize:   v.GetInt("enrich.batch_size"),
		BatchPause:  v.GetDuration("enrich.batch_pause"),
		CallTimeout: v.GetDuration("enrich.call_timeout"),
		Language:    v.GetString("enrich.language"),
	}
	cfg.PlaceCache = PlaceCacheConfig{
		Backend: strings.ToLower(v.GetString("place_cache.backend")),
		TTL:     v.GetDuration("place_cache.ttl"),
		Prefix:  v.GetString("place_cache.prefix"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiKey == "" {
			return errors.New("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case ProviderOpenAI:
		if c.AI.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.AI.Provider)
	}
	if c.Analysis.ConfidenceThreshold <= 0 || c.Analysis.ConfidenceThreshold > 1 {
		return fmt.Errorf("ANALYSIS_CONFIDENCE_THRESHOLD must be within (0,1], got %v", c.Analysis.ConfidenceThreshold)
	}
	if _, err := parser.ForMode(c.Analysis.ParserMode); err != nil {
		return fmt.Errorf("PARSER_MODE: %w", err)
	}
	if c.Analysis.MaxRetries < 1 {
		return fmt.Errorf("ANALYSIS_MAX_RETRIES must be at least 1, got %d", c.Analysis.MaxRetries)
	}
	if c.Enrichment.BatchSize < 1 {
		return fmt.Errorf("ENRICH_BATCH_SIZE must be at least 1, got %d", c.Enrichment.BatchSize)
	}
	if c.Enrichment.BatchPause <= 0 {
		return fmt.Errorf("ENRICH_BATCH_PAUSE must be positive, got %v", c.Enrichment.BatchPause)
	}
	switch c.PlaceCache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unsupported PLACE_CACHE_BACKEND %q", c.PlaceCache.Backend)
	}
	return nil
}
