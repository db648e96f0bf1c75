// Package config provides configuration loading and structs for propseek.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the retrieval core and its CLI.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
}

// CorpusConfig points at the listing source. When SQLitePath is set it wins
// over the JSON file path.
type CorpusConfig struct {
	Path       string `yaml:"path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// LLMConfig holds completion provider settings for query rewriting.
// The API key is read from the environment variable named by APIKeyEnv.
type LLMConfig struct {
	APIKeyEnv      string  `yaml:"api_key_env"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// SearchConfig holds retrieval and fusion settings.
type SearchConfig struct {
	DefaultTopK   int `yaml:"default_top_k"`
	MaxTopK       int `yaml:"max_top_k"`
	Candidates    int `yaml:"candidates"`
	HypothesisCap int `yaml:"hypothesis_cap"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands corpus paths relative to the config directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Corpus.Path = expandPath(cfg.Corpus.Path, configDir)
	if cfg.Corpus.SQLitePath != "" {
		cfg.Corpus.SQLitePath = expandPath(cfg.Corpus.SQLitePath, configDir)
	}
	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
