package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrStorageProviderUnknown = errors.New("firmsite config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("firmsite config: storage dsn is required for sql providers")
var ErrStorageDirRequired = errors.New("firmsite config: storage directory is required for the file provider")
var ErrStorageKeyRequired = errors.New("firmsite config: storage key prefix and version are required")

// ErrCacheRequiresSQLStorage keeps the repository cache bound to the SQL providers.
var ErrCacheRequiresSQLStorage = errors.New("firmsite config: repository cache requires a sql storage provider")
var ErrRemoteTimeoutInvalid = errors.New("firmsite config: remote timeout must be zero or positive")
var ErrRemoteMaxUploadInvalid = errors.New("firmsite config: remote max upload size must be positive")
var ErrGatewayQueueInvalid = errors.New("firmsite config: gateway write queue size must be positive")
var ErrLoggingProviderRequired = errors.New("firmsite config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("firmsite config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("firmsite config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("firmsite config: logging format is invalid")

// Storage provider identifiers.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config aggregates storage, remote and logging settings for the module.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Remote   RemoteConfig   `yaml:"remote"`
	GenAI    GenAIConfig    `yaml:"genai"`
	Images   ImagesConfig   `yaml:"images"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Commands CommandsConfig `yaml:"commands"`
	Features Features       `yaml:"features"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig selects where the local snapshot lives. KeyPrefix and
// Version form the storage key; bumping Version discards older snapshots.
type StorageConfig struct {
	Provider  string `yaml:"provider"`
	DSN       string `yaml:"dsn"`
	Dir       string `yaml:"dir"`
	KeyPrefix string `yaml:"key_prefix"`
	Version   string `yaml:"version"`
}

// CacheConfig captures the repository cache toggle for SQL storage.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// RemoteConfig tunes the remote sync backends. Credentials live in the
// site configuration, not here.
type RemoteConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	Table         string        `yaml:"table"`
	RowID         int           `yaml:"row_id"`
	Bucket        string        `yaml:"bucket"`
	MaxUploadSize int64         `yaml:"max_upload_size"`
}

// GenAIConfig configures the article draft generator.
type GenAIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ImagesConfig configures the image search client.
type ImagesConfig struct {
	BaseURL string        `yaml:"base_url"`
	PerPage int           `yaml:"per_page"`
	Timeout time.Duration `yaml:"timeout"`
}

// GatewayConfig sizes the ordered persistence queue.
type GatewayConfig struct {
	WriteQueue int `yaml:"write_queue"`
}

// CommandsConfig captures command handler behaviour.
type CommandsConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Features toggles module functionality.
type Features struct {
	RemoteSync bool `yaml:"remote_sync"`
	Activity   bool `yaml:"activity"`
	Logger     bool `yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns defaults suitable for a single-site deployment.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider:  StorageFile,
			Dir:       ".firmsite",
			KeyPrefix: "app_data",
			Version:   "v1.6",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Remote: RemoteConfig{
			Timeout:       15 * time.Second,
			Table:         "app_state",
			RowID:         1,
			Bucket:        "images",
			MaxUploadSize: 5 << 20,
		},
		GenAI: GenAIConfig{
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.5-flash",
			Timeout: 30 * time.Second,
		},
		Images: ImagesConfig{
			BaseURL: "https://api.unsplash.com",
			PerPage: 12,
			Timeout: 10 * time.Second,
		},
		Gateway: GatewayConfig{
			WriteQueue: 64,
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Features: Features{
			RemoteSync: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	provider := NormalizeStorageProvider(cfg.Storage.Provider)
	switch provider {
	case StorageMemory:
	case StorageFile:
		if strings.TrimSpace(cfg.Storage.Dir) == "" {
			return ErrStorageDirRequired
		}
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if strings.TrimSpace(cfg.Storage.KeyPrefix) == "" || strings.TrimSpace(cfg.Storage.Version) == "" {
		return ErrStorageKeyRequired
	}
	if cfg.Cache.Enabled && provider != StorageSQLite && provider != StoragePostgres {
		return ErrCacheRequiresSQLStorage
	}
	if cfg.Remote.Timeout < 0 {
		return fmt.Errorf("%w: remote", ErrRemoteTimeoutInvalid)
	}
	if cfg.GenAI.Timeout < 0 {
		return fmt.Errorf("%w: genai", ErrRemoteTimeoutInvalid)
	}
	if cfg.Images.Timeout < 0 {
		return fmt.Errorf("%w: images", ErrRemoteTimeoutInvalid)
	}
	if cfg.Remote.MaxUploadSize <= 0 {
		return ErrRemoteMaxUploadInvalid
	}
	if cfg.Gateway.WriteQueue <= 0 {
		return ErrGatewayQueueInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizeStorageProvider lowercases the provider name and maps the
// "sqlite3" and "postgresql" aliases.
func NormalizeStorageProvider(provider string) string {
	switch p := strings.ToLower(strings.TrimSpace(provider)); p {
	case "sqlite3":
		return StorageSQLite
	case "postgresql", "pg":
		return StoragePostgres
	default:
		return p
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
