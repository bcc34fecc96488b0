package chamasdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Request is an API call captured in full so that it can be sent again
// byte for byte after a token refresh.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// NewJSONRequest builds a Request with body encoded as JSON. A nil body
// produces a request without one.
func NewJSONRequest(method, path string, body any) (*Request, error) {
	req := &Request{Method: method, Path: path, Header: make(http.Header)}
	if body == nil {
		return req, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req.Body = data
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs req, attaching accessToken as a bearer token when it is set.
// Transport failures are returned as ErrNetwork.
func (c *SDKClient) send(ctx context.Context, req *Request, accessToken string) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("failed to read response body: %w", err))
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// postJSON sends an unauthenticated JSON request and decodes the reply.
func (c *SDKClient) postJSON(ctx context.Context, path string, in, out any, expectedStatus int) error {
	req, err := NewJSONRequest(http.MethodPost, path, in)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, req, "")
	if err != nil {
		return err
	}

	return decodeJSON(resp, out, expectedStatus)
}

// decodeJSON decodes a response body into target.
// Returns a typed *APIError if the status is not expectedStatus.
// A nil target only checks the status.
func decodeJSON(resp *Response, target any, expectedStatus int) error {
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, resp.Body)
	}

	if target == nil || len(resp.Body) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		return &APIError{
			Kind:       ErrServerError,
			StatusCode: resp.StatusCode,
			Detail:     "malformed response body",
			Err:        err,
		}
	}

	return nil
}
