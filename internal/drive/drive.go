// Package drive is a client for the Google Drive v3 API, scoped to the
// read-only operations face-finder needs: listing a shared folder and
// downloading file content.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/drive/v3"

// Client represents a client for the Google Drive API.
// It is constructed once per process and passed explicitly to whatever
// needs to list or download files.
type Client struct {
	baseURL   string
	parsedURL *url.URL
	tokens    *tokenSource // nil when a static token is used
	token     string
	client    *http.Client
	mimeTypes []string
}

// NewClient creates a Drive client from a service account key file and
// verifies the credentials by fetching an initial access token. A missing
// or invalid key file is a fatal condition, callers should halt rather
// than proceed with a broken connection.
func NewClient(credentialsFile string, mimeTypes []string) (*Client, error) {
	tokens, err := newTokenSource(credentialsFile)
	if err != nil {
		return nil, err
	}

	c, err := newClient(defaultBaseURL, mimeTypes)
	if err != nil {
		return nil, err
	}
	c.tokens = tokens
	tokens.client = c.client

	if _, err := tokens.Token(context.Background()); err != nil {
		return nil, fmt.Errorf("could not authenticate: %w", err)
	}
	return c, nil
}

// NewClientWithToken creates a Drive client that uses a fixed bearer token
// against the given base URL. Used by tests and short-lived tooling.
func NewClientWithToken(baseURL, token string, mimeTypes []string) (*Client, error) {
	c, err := newClient(baseURL, mimeTypes)
	if err != nil {
		return nil, err
	}
	c.token = token
	return c, nil
}

func newClient(baseURL string, mimeTypes []string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Drive URL: %w", err)
	}
	if len(mimeTypes) == 0 {
		mimeTypes = DefaultImageMIMETypes
	}
	return &Client{
		baseURL:   baseURL,
		parsedURL: parsed,
		client:    &http.Client{Timeout: 60 * time.Second},
		mimeTypes: mimeTypes,
	}, nil
}

// bearer returns the token to use for the next request, refreshing the
// service account token when needed.
func (c *Client) bearer(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return c.token, nil
	}
	return c.tokens.Token(ctx)
}

// resolveURL builds a full URL from the base API URL and the given path segments.
// If the last segment contains a query string (e.g. "files?pageSize=100"), it is
// split so JoinPath only receives the path portion and the query is appended.
func (c *Client) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return c.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := c.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return c.parsedURL.JoinPath(pathSegments...).String()
}

// doGetJSON performs a GET request and unmarshals the JSON response into the
// result type. The endpoint is the path after the base API URL.
func doGetJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	body, err := c.doGetRaw(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return &result, nil
}

// doGetRaw performs a GET request and returns the raw response body.
func (c *Client) doGetRaw(ctx context.Context, endpoint string) ([]byte, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolveURL(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	return body, nil
}

// readErrorBody reads the response body for error messages.
// Returns a placeholder if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}

// IsNotFoundError returns true if the error indicates a 404 Not Found response.
func IsNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "status 404")
}
