package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the default GitHub API base URL
	DefaultBaseURL = "https://api.github.com"

	// TokenEnv is the environment variable for GitHub token
	TokenEnv = "GITHUB_TOKEN"

	// APIURLEnv overrides the API base URL (GitHub Enterprise, test servers)
	APIURLEnv = "GITHUB_API_URL"

	// DefaultPerPage is the page size of every list call. Only the first page is read.
	DefaultPerPage = 100
)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the GitHub API
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets an HTTP timeout. Zero keeps the transport default (no timeout).
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client whose transport carries the requests.
// The token is layered on top of its transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// Client is a GitHub REST API client backed by go-github.
//
// All calls are single-shot: no retries, no backoff and only the first
// page of list endpoints is read. Failures are returned as *APIError.
type Client struct {
	token        string
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	githubClient *github.Client // Lazy-loaded go-github client
}

// NewClient creates a new GitHub API client with the given token
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}

	return c
}

// GetToken returns the client's authentication token
func (c *Client) GetToken() string {
	return c.token
}

// BaseURL returns the configured API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GitHubClient returns the underlying go-github client (lazy-loaded)
func (c *Client) GitHubClient() *github.Client {
	if c.githubClient == nil {
		// oauth2 wraps the transport of the client stored in the context
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"})
		tc := oauth2.NewClient(ctx, ts)
		tc.Timeout = c.httpClient.Timeout
		c.githubClient = github.NewClient(tc)

		if c.baseURL != DefaultBaseURL && c.baseURL != "" {
			if parsedURL, err := parseBaseURL(c.baseURL); err == nil {
				c.githubClient.BaseURL = parsedURL
			}
		}
	}
	return c.githubClient
}

// parseBaseURL parses an API base URL, ensuring the trailing slash go-github requires
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", raw)
	}
	return u, nil
}

// ValidateBaseURL reports whether raw can be used with WithBaseURL
func ValidateBaseURL(raw string) error {
	_, err := parseBaseURL(raw)
	return err
}
