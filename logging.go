package firmsite

import (
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/logging/console"
	"github.com/goliatone/go-firmsite/internal/logging/gologger"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

// Logger aliases the leveled logging contract.
type Logger = interfaces.Logger

// LoggerProvider aliases the named logger factory.
type LoggerProvider = interfaces.LoggerProvider

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

// newLoggerProvider builds the provider selected by cfg.Logging. The logger
// feature toggle off yields a provider that discards everything.
func newLoggerProvider(cfg Config) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return noopProvider{}, nil
	}
	switch provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)); provider {
	case "console":
		level, _ := console.ParseLevel(cfg.Logging.Level)
		return console.NewProvider(console.Options{
			Writer:   os.Stderr,
			MinLevel: &level,
		}), nil
	case "gologger":
		glp, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		return glp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
}
