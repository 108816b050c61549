package firmsite

import (
	"errors"
	"testing"

	"github.com/goliatone/go-firmsite/internal/logging/gologger"
)

func TestNewLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	provider, err := newLoggerProvider(cfg)
	if err != nil {
		t.Fatalf("newLoggerProvider returned error: %v", err)
	}
	glp, ok := provider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", provider)
	}
	if logger := glp.GetLogger("firmsite.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestNewLoggerProviderDisabledDiscards(t *testing.T) {
	provider, err := newLoggerProvider(DefaultConfig())
	if err != nil {
		t.Fatalf("newLoggerProvider returned error: %v", err)
	}
	if _, ok := provider.(noopProvider); !ok {
		t.Fatalf("expected no-op provider, got %T", provider)
	}
}

func TestNewLoggerProviderRejectsUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if _, err := newLoggerProvider(cfg); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}
