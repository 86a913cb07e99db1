package v1

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	scope          string
	httpClient     *http.Client
	logger         zerolog.Logger
	engine         string
	maxSuggestions int
}

// WithScope forces a specific scope (global or project).
func WithScope(scope string) Option {
	return func(c *clientConfig) {
		c.scope = scope
	}
}

// WithHTTPClient sets the client used to reach the engines.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithEngine overrides the configured engine ("generative" or "zeroshot").
func WithEngine(engine string) Option {
	return func(c *clientConfig) {
		c.engine = engine
	}
}

// WithMaxSuggestions overrides the configured suggestion limit.
func WithMaxSuggestions(n int) Option {
	return func(c *clientConfig) {
		c.maxSuggestions = n
	}
}
