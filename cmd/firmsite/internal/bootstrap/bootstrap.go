package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-firmsite"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FIRMSITE_"

// Options captures configuration for CLI bootstraps.
type Options struct {
	ConfigPath string
	EnvFiles   []string
	Lookup     func(string) (string, bool)
}

// LoadConfig starts from the defaults, applies the YAML file when one is
// given and finally the FIRMSITE_* environment overrides. Missing env files
// are ignored; a missing config file is an error.
func LoadConfig(opts Options) (firmsite.Config, error) {
	cfg := firmsite.DefaultConfig()

	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load env %s: %w", file, err)
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *firmsite.Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if value, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	flag := func(name string, dst *bool) error {
		value, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(value) == "" {
			return nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = parsed
		return nil
	}

	str("STORAGE_PROVIDER", &cfg.Storage.Provider)
	str("STORAGE_DSN", &cfg.Storage.DSN)
	str("STORAGE_DIR", &cfg.Storage.Dir)
	str("STORAGE_KEY_PREFIX", &cfg.Storage.KeyPrefix)
	str("STORAGE_VERSION", &cfg.Storage.Version)
	str("LOG_PROVIDER", &cfg.Logging.Provider)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("GENAI_MODEL", &cfg.GenAI.Model)

	return errors.Join(
		flag("CACHE_ENABLED", &cfg.Cache.Enabled),
		flag("REMOTE_SYNC", &cfg.Features.RemoteSync),
		flag("ACTIVITY", &cfg.Features.Activity),
		flag("LOGGER", &cfg.Features.Logger),
	)
}

// BuildModule loads the configuration and opens the runtime.
func BuildModule(ctx context.Context, opts Options, moduleOpts ...firmsite.Option) (*firmsite.Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	module, err := firmsite.Open(ctx, cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise firmsite module: %w", err)
	}
	return module, nil
}

// ParseUUID converts the supplied string into a UUID, returning uuid.Nil when the input is empty.
func ParseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(trimmed)
}
