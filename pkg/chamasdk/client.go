package chamasdk

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the chama API.
// It provides access to unauthenticated operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// Logger receives refresh and credential events. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewSDKClient creates a new chama API client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Logger: slog.Default(),
	}
}

// Login exchanges a username and password for a credential pair and returns
// a session holding it. The pair replaces whatever the session's store held.
func (c *SDKClient) Login(
	ctx context.Context,
	username, password string,
	opts ...SessionOption,
) (*Session, error) {
	pair, err := c.ObtainToken(ctx, username, password)
	if err != nil {
		return nil, err
	}

	return c.sessionWithPair(pair, opts)
}

// Register creates an account and returns a signed-in session for it.
func (c *SDKClient) Register(
	ctx context.Context,
	req RegisterRequest,
	opts ...SessionOption,
) (*Session, error) {
	pair, err := c.RegisterAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	return c.sessionWithPair(pair, opts)
}

// NewSession resumes a session from whatever the store already holds.
// A session with an empty store sends requests without credentials.
func (c *SDKClient) NewSession(opts ...SessionOption) (*Session, error) {
	s := newSession(c, opts)

	creds, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	s.creds = creds

	return s, nil
}

func (c *SDKClient) sessionWithPair(pair *TokenPair, opts []SessionOption) (*Session, error) {
	s := newSession(c, opts)
	if err := s.SetCredentials(Credentials{Access: pair.Access, Refresh: pair.Refresh}); err != nil {
		return nil, err
	}
	return s, nil
}
