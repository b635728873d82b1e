package cmd

import (
	"github.com/blakearchive/sfmscripts/internal/config"
	"github.com/blakearchive/sfmscripts/internal/similarity"
)

// newClient validates the service configuration and builds a similarity
// client from it. Called by every command that talks to the service, before
// any network I/O.
func newClient(cfg config.Config) (*similarity.Client, error) {
	if err := cfg.ValidateService(); err != nil {
		return nil, err
	}
	return similarity.New(similarity.Config{
		Addr:      cfg.Service.Addr,
		Port:      cfg.Service.Port,
		PageSize:  cfg.Service.PageSize,
		RateLimit: cfg.Service.RateLimit,
		Timeout:   cfg.Service.Timeout,
	})
}
