package kafka

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks env vars that override the source file; "__" nests.
const EnvPrefix = "CHARTBRIDGE_KAFKA__"

// Where a new consumer group starts reading.
const (
	StartOldest = "oldest"
	StartNewest = "newest"
)

type CheckpointCfg struct {
	CommitInt time.Duration `koanf:"commit_interval"` // offset flush cadence
}

// Config is the request source: which topics to answer and as which group.
type Config struct {
	Brokers   []string `koanf:"brokers"`
	Topics    []string `koanf:"topics"`
	GroupID   string   `koanf:"group_id"`
	StartFrom string   `koanf:"start_from"`
	Version   string   `koanf:"version"` // broker protocol version
	TLSEn     bool     `koanf:"tls_enabled"`
	SASLUser  string   `koanf:"sasl_user"`
	SASLPass  string   `koanf:"sasl_pass"`

	Checkpoint CheckpointCfg `koanf:"checkpoint"`
}

// LoadConfig reads the YAML at path (a missing file is fine when env vars
// carry everything), applies env overrides and defaults, then validates.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("kafka source %s: %w", path, err)
		}
	}
	if sv := k.String("schema_version"); sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("kafka schema_version %q not supported (want v1)", sv)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, cfg.Validate()
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func (c *Config) setDefaults() {
	if c.StartFrom == "" {
		c.StartFrom = StartNewest
	}
	if c.Version == "" {
		c.Version = "2.1.0"
	}
	if c.Checkpoint.CommitInt <= 0 {
		c.Checkpoint.CommitInt = 5 * time.Second
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if len(c.Brokers) == 0 {
		errs = append(errs, errors.New("kafka: brokers is required"))
	}
	if len(c.Topics) == 0 {
		errs = append(errs, errors.New("kafka: topics is required"))
	}
	if c.GroupID == "" {
		errs = append(errs, errors.New("kafka: group_id is required"))
	}
	if c.StartFrom != StartOldest && c.StartFrom != StartNewest {
		errs = append(errs, fmt.Errorf("kafka: start_from %q is not %s or %s", c.StartFrom, StartOldest, StartNewest))
	}
	if c.SASLPass != "" && c.SASLUser == "" {
		errs = append(errs, errors.New("kafka: sasl_pass set without sasl_user"))
	}
	return errors.Join(errs...)
}
