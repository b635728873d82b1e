package config

import (
	"errors"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Service.Addr != "" {
		t.Errorf("Service.Addr default = %q, want empty (must be supplied)", cfg.Service.Addr)
	}
	if cfg.Service.Port != 8080 {
		t.Errorf("Service.Port default = %d, want 8080", cfg.Service.Port)
	}
	if cfg.Service.PageSize != 100 {
		t.Errorf("Service.PageSize default = %d, want 100", cfg.Service.PageSize)
	}
	if cfg.Service.RateLimit != 10 {
		t.Errorf("Service.RateLimit default = %v, want 10", cfg.Service.RateLimit)
	}
	if cfg.Service.Timeout != 30*time.Second {
		t.Errorf("Service.Timeout default = %v, want 30s", cfg.Service.Timeout)
	}
	if cfg.Export.Output != "matches.csv" {
		t.Errorf("Export.Output default = %q, want matches.csv", cfg.Export.Output)
	}
	if cfg.Export.Relations != "" {
		t.Errorf("Export.Relations default = %q, want empty (fail-open)", cfg.Export.Relations)
	}
}

func TestValidateService(t *testing.T) {
	cfg := Defaults()
	if err := cfg.ValidateService(); !errors.Is(err, ErrMissingAddress) {
		t.Errorf("ValidateService() without addr = %v, want ErrMissingAddress", err)
	}

	cfg.Service.Addr = "127.0.0.1"
	if err := cfg.ValidateService(); err != nil {
		t.Errorf("ValidateService() with addr = %v, want nil", err)
	}
}
