package request

import (
	"crypto/tls"

	"github.com/go-resty/resty/v2"
)

// NewClient returns a resty client configured with the given TLS settings.
// Defaults: MinVersion TLS1.3 when cfg.MinVersion is zero. Timeouts and
// retries are left to the caller; the engine imposes none of its own.
func NewClient(cfg *tls.Config) *resty.Client {
	c := resty.New()
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS13
	}
	c.SetTLSClientConfig(cfg)
	return c
}
