package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPipelineSpec_ResolvesRelativeSourceConfigAndSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v1
source:
  kind: kafka
  driver: sarama
  config: kafka_source.yml
sinks: [stdout]
worker:
  timeout_ms: 250
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "kafka_source.yml"), []byte("schema_version: v1\n"), 0o644); err != nil {
		t.Fatalf("write kafka cfg: %v", err)
	}

	cfg, abs, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err != nil {
		t.Fatalf("LoadPipelineSpec: %v", err)
	}
	if cfg.SchemaVersion != SupportedSchema {
		t.Fatalf("want schema %s, got %s", SupportedSchema, cfg.SchemaVersion)
	}
	if abs == "" || !filepath.IsAbs(abs) {
		t.Fatalf("want absolute kafka config path, got %q", abs)
	}
	if cfg.Worker.TimeoutMS != 250 {
		t.Fatalf("want worker timeout 250, got %d", cfg.Worker.TimeoutMS)
	}
}

func TestLoadPipelineSpec_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v999
source: { kind: kafka, driver: sarama, config: cf.yml }
sinks: [stdout]
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}
	_, _, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}

func TestLoadPipelineSpec_Rejects(t *testing.T) {
	cases := map[string]string{
		"no sinks":         "source: { kind: kafka, driver: sarama }\n",
		"negative timeout": "sinks: [stdout]\nworker: { timeout_ms: -1 }\n",
		"not yaml":         "sinks: [stdout\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pipeline.yml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write pipeline: %v", err)
			}
			if _, _, err := LoadPipelineSpec(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
