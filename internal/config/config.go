package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "CHARTBRIDGE_"

	BackendGoja = "goja"
	BackendGRPC = "grpc"
)

type RuntimeCfg struct {
	Backend     string        `koanf:"backend"`      // goja|grpc
	Root        string        `koanf:"root"`         // holds templates/dist/*.umd.js
	Address     string        `koanf:"address"`      // remote chartbridge for backend=grpc
	CallTimeout time.Duration `koanf:"call_timeout"` // 0 = none
}

type ServerCfg struct {
	GRPCPort    int    `koanf:"grpc_port"`
	HTTPPort    int    `koanf:"http_port"`
	MetricsPort int    `koanf:"metrics_port"`
	Mode        string `koanf:"mode"` // gin mode: debug|release|test
}

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type Config struct {
	SchemaVersion string     `koanf:"schema_version"`
	Runtime       RuntimeCfg `koanf:"runtime"`
	Server        ServerCfg  `koanf:"server"`
	Log           LogCfg     `koanf:"log"`
}

// Load merges, in increasing precedence: defaults, the YAML file at path
// (optional), a .env file in the working directory (optional) and
// CHARTBRIDGE_* env vars. "__" in a var name nests, so
// CHARTBRIDGE_RUNTIME__ROOT sets runtime.root.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("config schema_version %q not supported (want %q)", sv, SupportedSchema)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.Runtime.Backend == "" {
		c.Runtime.Backend = BackendGoja
	}
	if c.Runtime.Root == "" {
		c.Runtime.Root = "."
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 7070
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = 9100
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c Config) Validate() error {
	if c.Runtime.Backend == BackendGRPC && c.Runtime.Address == "" {
		return errors.New("runtime.address is required when runtime.backend is grpc")
	}
	if c.Runtime.CallTimeout < 0 {
		return fmt.Errorf("runtime.call_timeout must not be negative, got %s", c.Runtime.CallTimeout)
	}
	return nil
}
