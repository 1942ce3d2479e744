// Package api provides the HTTP client for the assistant service.
package api

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/jewelchat/internal/models"
)

// ChatClientInterface is what the conversation loop needs from the transport
type ChatClientInterface interface {
	SendTurn(ctx context.Context, req models.ChatRequest) (*models.Reply, error)
	ResetConversation(ctx context.Context, threadID string) error
	SaveImage(ref string, opts ImageDownloadOptions) (string, error)
	BaseURL() string
	Close()
}

// Ensure Client implements ChatClientInterface
var _ ChatClientInterface = (*Client)(nil)

// Client talks to the assistant service over JSON/HTTP
type Client struct {
	httpClient     tls_client.HttpClient
	baseURL        string
	timeoutSeconds int
	logger         *zap.Logger
	mu             sync.RWMutex
	closed         bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient injects the HTTP client (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeoutSeconds bounds every exchange. Zero, the default, waits indefinitely.
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = models.DefaultServerURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("invalid server URL %q: must start with http:// or https://", baseURL)
	}

	client := &Client{
		baseURL: baseURL,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the service root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins the base URL and an endpoint path
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// Close releases idle connections. Further requests fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
