package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("ai.gemini_key", "test-key")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, 0.3, cfg.Analysis.ConfidenceThreshold)
	assert.Equal(t, 3, cfg.Enrichment.BatchSize)
	assert.Equal(t, 200*time.Millisecond, cfg.Enrichment.BatchPause)
	assert.Equal(t, CacheBackendMemory, cfg.PlaceCache.Backend)
	assert.Equal(t, time.Duration(0), cfg.PlaceCache.TTL)
	assert.Equal(t, "lenient", cfg.Analysis.ParserMode)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ENRICH_BATCH_SIZE", "5")
	t.Setenv("ANALYSIS_CONFIDENCE_THRESHOLD", "0.45")
	t.Setenv("PLACE_CACHE_BACKEND", "redis")
	t.Setenv("PARSER_MODE", "STRICT")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.OpenAIKey)
	assert.Equal(t, 5, cfg.Enrichment.BatchSize)
	assert.Equal(t, 0.45, cfg.Analysis.ConfidenceThreshold)
	assert.Equal(t, CacheBackendRedis, cfg.PlaceCache.Backend)
	assert.Equal(t, "strict", cfg.Analysis.ParserMode)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
		want string
	}{
		{"missing gemini key", map[string]any{}, "GEMINI_API_KEY"},
		{"unknown provider", map[string]any{"ai.provider": "llama"}, "LLM_PROVIDER"},
		{"threshold out of range", map[string]any{"ai.gemini_key": "k", "analysis.confidence_threshold": 1.5}, "ANALYSIS_CONFIDENCE_THRESHOLD"},
		{"zero threshold", map[string]any{"ai.gemini_key": "k", "analysis.confidence_threshold": 0}, "ANALYSIS_CONFIDENCE_THRESHOLD"},
		{"zero batch", map[string]any{"ai.gemini_key": "k", "enrich.batch_size": 0}, "ENRICH_BATCH_SIZE"},
		{"zero batch pause", map[string]any{"ai.gemini_key": "k", "enrich.batch_pause": "0s"}, "ENRICH_BATCH_PAUSE"},
		{"unknown parser mode", map[string]any{"ai.gemini_key": "k", "analysis.parser_mode": "yaml"}, "PARSER_MODE"},
		{"bad cache backend", map[string]any{"ai.gemini_key": "k", "place_cache.backend": "disk"}, "PLACE_CACHE_BACKEND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tc.set {
				v.Set(k, val)
			}
			_, err := LoadFrom(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
