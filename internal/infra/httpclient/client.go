package httpclient

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

type Config struct {
	// Total timeout for the entire request, body included. Zero leaves the
	// request unbounded apart from the transport's own timeouts.
	Timeout time.Duration

	TLSHandshake   time.Duration
	ResponseHeader time.Duration
}

func DefaultConfig() Config {
	return Config{
		TLSHandshake: 10 * time.Second,
	}
}

// New returns a client on a non-shared pooled transport, so nothing leaks
// into or out of http.DefaultTransport.
func New(cfg Config) *http.Client {
	tr := cleanhttp.DefaultPooledTransport()
	if cfg.TLSHandshake > 0 {
		tr.TLSHandshakeTimeout = cfg.TLSHandshake
	}
	if cfg.ResponseHeader > 0 {
		tr.ResponseHeaderTimeout = cfg.ResponseHeader
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}
