// Package config loads the command line tool's configuration: defaults,
// then an optional YAML file, then TEAMCITY_* environment variables.
// Flags are applied on top by the caller before Validate.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/teamcity/internal/validate"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "TEAMCITY_"

// Config holds all configuration for the CLI.
type Config struct {
	URL      string        `yaml:"url" validate:"required,url"` // TEAMCITY_URL
	User     string        `yaml:"user"`                        // TEAMCITY_USER
	Password string        `yaml:"password"`                    // TEAMCITY_PASSWORD
	Insecure bool          `yaml:"insecure"`                    // TEAMCITY_INSECURE
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`    // TEAMCITY_TIMEOUT, e.g. "30s"
	RPS      int           `yaml:"rps" validate:"gte=0"`        // TEAMCITY_RPS, 0 disables throttling
	Burst    int           `yaml:"burst" validate:"gte=0"`      // TEAMCITY_BURST, defaults to RPS
	Log      Log           `yaml:"log"`
}

// Log configures the CLI's logger.
type Log struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"` // TEAMCITY_LOG_LEVEL
	File       string `yaml:"file"`                                                           // TEAMCITY_LOG_FILE, empty means stderr
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// Load starts from Default, decodes the YAML file at path when path is not
// empty, then applies the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// ApplyEnv overrides fields from TEAMCITY_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return v, ok && v != ""
	}

	if v, ok := env("URL"); ok {
		c.URL = v
	}
	if v, ok := env("USER"); ok {
		c.User = v
	}
	if v, ok := env("PASSWORD"); ok {
		c.Password = v
	}
	if v, ok := env("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := env("LOG_FILE"); ok {
		c.Log.File = v
	}

	if v, ok := env("INSECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %sINSECURE: %w", EnvPrefix, err)
		}
		c.Insecure = b
	}
	if v, ok := env("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}

	for key, dst := range map[string]*int{"RPS": &c.RPS, "BURST": &c.Burst} {
		if v, ok := env(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parsing %s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	return nil
}

// Validate checks the configuration against its declared constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// ThrottleBurst is the burst to use with RPS: Burst, or RPS when unset.
func (c Config) ThrottleBurst() int {
	if c.Burst > 0 {
		return c.Burst
	}

	return c.RPS
}
