package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/authclient/client/auth/transport"
)

type Option func(*Service)

// WithHTTPTransport sets the transport used for network calls
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(s *Service) {
		s.httpTransport = rt
	}
}

// WithTimeout sets max response wait time for every request
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// WithTransportOptions configures the authenticating round tripper
func WithTransportOptions(options ...transport.Option) Option {
	return func(s *Service) {
		s.transportOptions = append(s.transportOptions, options...)
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
