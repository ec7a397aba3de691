package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"chartbridge/internal/spec"
)

const SupportedSchema = "v1"

// LoadPipelineSpec parses a worker pipeline YAML, validates schema_version, and
// returns the parsed spec and an absolute path to the source config (if set).
func LoadPipelineSpec(path string) (spec.File, string, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	if len(cfg.Sinks) == 0 {
		return cfg, "", errors.New("pipeline: at least one sink is required")
	}
	if cfg.Worker.TimeoutMS < 0 {
		return cfg, "", fmt.Errorf("pipeline: worker.timeout_ms must not be negative, got %d", cfg.Worker.TimeoutMS)
	}
	confPath := cfg.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(filepath.Dir(path), confPath)
	}
	if confPath != "" {
		if confPath, err = filepath.Abs(confPath); err != nil {
			return cfg, "", err
		}
	}
	return cfg, confPath, nil
}
