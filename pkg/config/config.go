// Package config loads hyperkey settings from TOML or YAML files.
//
// Values are layered: built-in defaults, then the config file, then
// HYPERKEY_* environment variables. Command-line flags are applied by the
// CLI on top of the result. The file format is chosen by extension (.toml,
// .yaml or .yml).
//
// A missing file at the default path is not an error; a missing file that
// was named explicitly is.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

const appName = "hyperkey"

// Config is the complete hyperkey configuration.
type Config struct {
	Realize RealizeConfig `toml:"realize" yaml:"realize"`
	Keygen  KeygenConfig  `toml:"keygen" yaml:"keygen"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// RealizeConfig holds search defaults.
type RealizeConfig struct {
	Strategy string        `toml:"strategy" yaml:"strategy" validate:"oneof=recursive iterative"`
	Limit    int           `toml:"limit" yaml:"limit" validate:"min=1,max=1000000"`
	Workers  int           `toml:"workers" yaml:"workers" validate:"min=1,max=256"`
	Timeout  time.Duration `toml:"timeout" yaml:"timeout" validate:"min=0"` // 0 disables
}

// KeygenConfig holds key generation defaults.
type KeygenConfig struct {
	Stream string `toml:"stream" yaml:"stream" validate:"oneof=lcg jsf chacha8"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend    string `toml:"backend" yaml:"backend" validate:"oneof=file redis mongo none"`
	Dir        string `toml:"dir" yaml:"dir"` // file backend; XDG cache dir when empty
	URL        string `toml:"url" yaml:"url" validate:"required_if=Backend redis,required_if=Backend mongo"`
	Namespace  string `toml:"namespace" yaml:"namespace"` // key prefix
	Database   string `toml:"database" yaml:"database" validate:"required_if=Backend mongo"`
	Collection string `toml:"collection" yaml:"collection" validate:"required_if=Backend mongo"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout" validate:"min=0"` // 0 for unbounded streams
	MaxLimit     int           `toml:"max_limit" yaml:"max_limit" validate:"min=1"`
}

// LogConfig sets the log level used when --verbose is not given.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Realize: RealizeConfig{
			Strategy: "recursive",
			Limit:    1000,
			Workers:  4,
		},
		Keygen: KeygenConfig{Stream: "lcg"},
		Cache: CacheConfig{
			Backend:    "file",
			Database:   appName,
			Collection: "cache",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			ReadTimeout: 10 * time.Second,
			MaxLimit:    10_000,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/hyperkey/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty, then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, errs.New(errs.ErrCodeNotFound, "config file %s not found", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := Decode(data, filepath.Ext(path), cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses data in the format named by ext into cfg. Fields absent
// from data keep their current values.
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse toml")
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return errs.New(errs.ErrCodeInvalidConfig, "unknown key %q", undec[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	return nil
}

// ApplyEnv overrides fields from HYPERKEY_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"HYPERKEY_REALIZE_STRATEGY": &c.Realize.Strategy,
		"HYPERKEY_KEYGEN_STREAM":    &c.Keygen.Stream,
		"HYPERKEY_CACHE_BACKEND":    &c.Cache.Backend,
		"HYPERKEY_CACHE_DIR":        &c.Cache.Dir,
		"HYPERKEY_CACHE_URL":        &c.Cache.URL,
		"HYPERKEY_CACHE_NAMESPACE":  &c.Cache.Namespace,
		"HYPERKEY_SERVER_ADDR":      &c.Server.Addr,
		"HYPERKEY_LOG_LEVEL":        &c.Log.Level,
	}
	for name, dst := range str {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HYPERKEY_REALIZE_LIMIT":   &c.Realize.Limit,
		"HYPERKEY_REALIZE_WORKERS": &c.Realize.Workers,
	}
	for name, dst := range ints {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", name)
			}
			*dst = n
		}
	}

	if v, ok := lookup("HYPERKEY_REALIZE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "HYPERKEY_REALIZE_TIMEOUT")
		}
		c.Realize.Timeout = d
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint and reports all failures in one
// INVALID_CONFIG error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "validate config")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = describe(fe)
	}
	return errs.New(errs.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s, got %v", field, map[string]string{"min": ">=", "max": "<="}[fe.Tag()], fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
