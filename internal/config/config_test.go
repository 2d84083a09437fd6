package config

import (
	"os"
	"testing"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{APIKey: "test-key"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingEmbeddingKey(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding api key")
	}
}

func TestValidate_OverlapNotBelowChunkSize(t *testing.T) {
	cfg := validConfig()
	cfg.Search.ChunkSize = 100
	cfg.Search.ChunkOverlap = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for overlap >= chunk size")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Search.ChunkSize != 500 {
		t.Errorf("chunk_size default = %d, want 500", cfg.Search.ChunkSize)
	}
	if cfg.Search.ChunkOverlap != 50 {
		t.Errorf("chunk_overlap default = %d, want 50", cfg.Search.ChunkOverlap)
	}
	if cfg.Search.MaxSearchChunks != 250 {
		t.Errorf("max_search_chunks default = %d, want 250", cfg.Search.MaxSearchChunks)
	}
	if cfg.Search.RecencyDays != 30 {
		t.Errorf("recency_days default = %d, want 30", cfg.Search.RecencyDays)
	}
	if cfg.Search.DefaultPageSize != 20 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("page size defaults = %d/%d, want 20/100",
			cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	}
	if cfg.Embedding.Model != domain.DefaultVectorConfig().Model {
		t.Errorf("model default = %q, want %q", cfg.Embedding.Model, domain.DefaultVectorConfig().Model)
	}
	if cfg.Embedding.Dimensions != domain.DefaultVectorConfig().Dimensions {
		t.Errorf("dimensions default = %d, want %d",
			cfg.Embedding.Dimensions, domain.DefaultVectorConfig().Dimensions)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("RESUMATCH_TEST_VAR", "secret")
	defer os.Unsetenv("RESUMATCH_TEST_VAR")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain var", "key: ${RESUMATCH_TEST_VAR}", "key: secret"},
		{"default unused", "key: ${RESUMATCH_TEST_VAR:-fallback}", "key: secret"},
		{"default used", "key: ${RESUMATCH_TEST_UNSET:-fallback}", "key: fallback"},
		{"unset no default", "key: ${RESUMATCH_TEST_UNSET}", "key: "},
		{"no vars", "key: value", "key: value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnvVars([]byte(tt.input)))
			if got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
