package chamasdk

import (
	"context"
	"net/http"
)

// ObtainToken exchanges a username and password for a credential pair.
func (c *SDKClient) ObtainToken(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.postJSON(ctx, "/api/token/", LoginRequest{Username: username, Password: password}, &pair, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// RegisterAccount creates an account and returns its first credential pair.
func (c *SDKClient) RegisterAccount(ctx context.Context, req RegisterRequest) (*TokenPair, error) {
	var pair TokenPair
	if err := c.postJSON(ctx, "/api/register/", req, &pair, http.StatusCreated); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshGrant exchanges a refresh token for a new access token.
// When the server rotates refresh tokens the reply carries a new refresh
// token too; otherwise Refresh is empty.
func (c *SDKClient) RefreshGrant(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.postJSON(ctx, "/api/token/refresh/", RefreshRequest{Refresh: refreshToken}, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Revoke blacklists a refresh token so it can no longer be exchanged.
func (c *SDKClient) Revoke(ctx context.Context, refreshToken string) error {
	return c.postJSON(ctx, "/api/token/blacklist/", RefreshRequest{Refresh: refreshToken}, nil, http.StatusOK)
}
