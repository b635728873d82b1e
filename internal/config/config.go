package config

import (
	"errors"
	"time"
)

// ErrMissingAddress indicates no similarity service address was configured.
// It is surfaced at startup, before any network call is attempted.
var ErrMissingAddress = errors.New("similarity service address not configured (set service.addr)")

// Config holds all application configuration.
type Config struct {
	Service Service `mapstructure:"service"`
	Export  Export  `mapstructure:"export"`
	Extract Extract `mapstructure:"extract"`
}

// Service holds similarity service connection configuration.
type Service struct {
	Addr      string        `mapstructure:"addr"`
	Port      int           `mapstructure:"port"`
	PageSize  int           `mapstructure:"page_size"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Export holds match export configuration.
type Export struct {
	Output    string `mapstructure:"output"`
	Relations string `mapstructure:"relations"` // matrix relation CSV, "" = no exclusions
}

// Extract holds transcription extraction configuration.
type Extract struct {
	XMLDir  string `mapstructure:"xml_dir"`
	TextDir string `mapstructure:"text_dir"`
}

// Defaults returns a Config with sensible default values. The service
// address has no default: it must be supplied by config file, env, or flag.
func Defaults() Config {
	return Config{
		Service: Service{
			Port:      8080,
			PageSize:  100,
			RateLimit: 10,
			Timeout:   30 * time.Second,
		},
		Export: Export{
			Output: "matches.csv",
		},
		Extract: Extract{
			XMLDir:  "works/xml",
			TextDir: "works/text",
		},
	}
}

// ValidateService checks that the service connection is usable. Missing
// address is a startup error, not a per-call error.
func (c Config) ValidateService() error {
	if c.Service.Addr == "" {
		return ErrMissingAddress
	}
	return nil
}
