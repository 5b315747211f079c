// Package banksdk is a Go client for the bank ledger service. It wraps the
// HTTP API with typed requests and responses so tools and end-to-end tests do
// not hand-roll form encoding and envelope parsing.
package banksdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the bank ledger service. It provides access to
// unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new bank service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with a username and password and returns an
// authenticated Session holding the opaque session token.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.doForm(ctx, http.MethodPost, "/login", form, "")
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := decodeEnvelope(resp, &loginResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &Session{client: c, token: loginResp.SessionToken}, nil
}

// NewSessionFromToken wraps an existing session token in a Session. Useful
// when the token was obtained out of band.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}
