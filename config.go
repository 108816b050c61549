package firmsite

import "github.com/goliatone/go-firmsite/internal/runtimeconfig"

// Config aliases the runtime configuration so callers only import the root package.
type Config = runtimeconfig.Config

// StorageConfig aliases the snapshot storage configuration.
type StorageConfig = runtimeconfig.StorageConfig

// CacheConfig aliases the repository cache configuration.
type CacheConfig = runtimeconfig.CacheConfig

// RemoteConfig aliases the remote sync tuning.
type RemoteConfig = runtimeconfig.RemoteConfig

// GenAIConfig aliases the draft generator configuration.
type GenAIConfig = runtimeconfig.GenAIConfig

// ImagesConfig aliases the image search configuration.
type ImagesConfig = runtimeconfig.ImagesConfig

// GatewayConfig aliases the mutation gateway configuration.
type GatewayConfig = runtimeconfig.GatewayConfig

// CommandsConfig aliases the command handler configuration.
type CommandsConfig = runtimeconfig.CommandsConfig

// Features aliases the feature toggles.
type Features = runtimeconfig.Features

// LoggingConfig aliases the logging provider options.
type LoggingConfig = runtimeconfig.LoggingConfig

// Storage provider identifiers.
const (
	StorageMemory   = runtimeconfig.StorageMemory
	StorageFile     = runtimeconfig.StorageFile
	StorageSQLite   = runtimeconfig.StorageSQLite
	StoragePostgres = runtimeconfig.StoragePostgres
)

var (
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrStorageDirRequired      = runtimeconfig.ErrStorageDirRequired
	ErrStorageKeyRequired      = runtimeconfig.ErrStorageKeyRequired
	ErrCacheRequiresSQLStorage = runtimeconfig.ErrCacheRequiresSQLStorage
	ErrRemoteTimeoutInvalid    = runtimeconfig.ErrRemoteTimeoutInvalid
	ErrRemoteMaxUploadInvalid  = runtimeconfig.ErrRemoteMaxUploadInvalid
	ErrGatewayQueueInvalid     = runtimeconfig.ErrGatewayQueueInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

// DefaultConfig returns the default runtime configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
