// Package config loads the YAML configuration for the paperdex CLI.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ChunkingConfig configures how extracted text is split.
type ChunkingConfig struct {
	Size     int `yaml:"size"`
	Overlap  int `yaml:"overlap"`
	Lookback int `yaml:"lookback,omitempty"`
}

// SearchConfig configures ranking and highlighting.
type SearchConfig struct {
	MaxLimit      int     `yaml:"max_limit"`
	PhraseBoost   float64 `yaml:"phrase_boost"`
	ContentBoost  float64 `yaml:"content_boost"`
	FilenameBoost float64 `yaml:"filename_boost"`
	FragmentSize  int     `yaml:"fragment_size"`
	MaxFragments  int     `yaml:"max_fragments"`
}

// IngestConfig configures the ingestion pipeline.
type IngestConfig struct {
	PoolSize    int `yaml:"pool_size,omitempty"`
	TimeoutSecs int `yaml:"timeout_secs"`
}

// Config is the root configuration structure.
type Config struct {
	DBPath   string         `yaml:"db_path"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Search   SearchConfig   `yaml:"search"`
	Ingest   IngestConfig   `yaml:"ingest"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath: "paperdex.db",
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Search: SearchConfig{
			MaxLimit:      50,
			PhraseBoost:   3,
			ContentBoost:  2,
			FilenameBoost: 1,
			FragmentSize:  200,
			MaxFragments:  3,
		},
		Ingest: IngestConfig{
			TimeoutSecs: 30,
		},
	}
}

// Load reads a config from the given path. A missing file returns the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = def.Chunking.Size
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = def.Search.MaxLimit
	}
	if cfg.Search.PhraseBoost == 0 {
		cfg.Search.PhraseBoost = def.Search.PhraseBoost
	}
	if cfg.Search.ContentBoost == 0 {
		cfg.Search.ContentBoost = def.Search.ContentBoost
	}
	if cfg.Search.FilenameBoost == 0 {
		cfg.Search.FilenameBoost = def.Search.FilenameBoost
	}
	if cfg.Search.FragmentSize == 0 {
		cfg.Search.FragmentSize = def.Search.FragmentSize
	}
	if cfg.Search.MaxFragments == 0 {
		cfg.Search.MaxFragments = def.Search.MaxFragments
	}
	if cfg.Ingest.TimeoutSecs == 0 {
		cfg.Ingest.TimeoutSecs = def.Ingest.TimeoutSecs
	}
}
