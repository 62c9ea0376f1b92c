package gql

import (
	"context"
	"net/http"
	"time"

	graphql "github.com/hasura/go-graphql-client"
)

// Transport sends one GraphQL document and returns the raw "data" object of
// the response.
type Transport interface {
	Execute(ctx context.Context, document string, vars map[string]any) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, document string, vars map[string]any) ([]byte, error)

func (f TransportFunc) Execute(ctx context.Context, document string, vars map[string]any) ([]byte, error) {
	return f(ctx, document, vars)
}

// HTTPTransport talks to a GraphQL endpoint over HTTP with a static set of
// headers attached to every request.
type HTTPTransport struct {
	client *graphql.Client
}

type transportConfig struct {
	httpClient *http.Client
	headers    http.Header
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*transportConfig)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) TransportOption {
	return func(c *transportConfig) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) TransportOption {
	return func(c *transportConfig) { c.httpClient = &http.Client{Timeout: d} }
}

// WithHeader adds a header sent with every request, e.g. the admin secret.
func WithHeader(name, value string) TransportOption {
	return func(c *transportConfig) {
		if name != "" && value != "" {
			c.headers.Set(name, value)
		}
	}
}

// NewHTTPTransport creates a transport for endpoint.
func NewHTTPTransport(endpoint string, opts ...TransportOption) *HTTPTransport {
	cfg := &transportConfig{
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	headers := cfg.headers
	client := graphql.NewClient(endpoint, cfg.httpClient).
		WithRequestModifier(func(r *http.Request) {
			for name, values := range headers {
				for _, v := range values {
					r.Header.Add(name, v)
				}
			}
		})
	return &HTTPTransport{client: client}
}

// Execute implements Transport.
func (t *HTTPTransport) Execute(ctx context.Context, document string, vars map[string]any) ([]byte, error) {
	return t.client.ExecRaw(ctx, document, vars)
}
