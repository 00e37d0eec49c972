// Package fetch performs the single outbound GET the service makes and
// decodes its JSON body.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// DefaultURL is the endpoint fetched when no override is configured.
const DefaultURL = "https://jsonplaceholder.typicode.com/posts"

// FetchErrorMessage is the message carried by every FetchError.
const FetchErrorMessage = "operation did not complete successfully"

// FetchError is returned for any failure of the round trip. The cause is
// not retained.
type FetchError struct{}

// Error returns the fixed message.
func (e *FetchError) Error() string {
	return FetchErrorMessage
}

// ErrFetch is the error returned by Client for every failure.
var ErrFetch error = &FetchError{}

var (
	errEmptyResponse    = errors.New("empty response")
	errUnexpectedStatus = errors.New("unexpected status")
)

// Doer performs an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches and decodes JSON from a single URL.
type Client struct {
	doer Doer
	url  string
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the fetched URL.
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// New creates a Client. A nil doer uses http.DefaultClient.
func New(doer Doer, opts ...Option) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	c := &Client{doer: doer, url: DefaultURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the URL the client fetches.
func (c *Client) URL() string {
	return c.url
}

// Fetch issues one GET and returns the decoded JSON body.
func (c *Client) Fetch(ctx context.Context) (any, error) {
	var v any
	if err := c.FetchInto(ctx, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// FetchInto issues one GET and decodes the JSON body into v.
func (c *Client) FetchInto(ctx context.Context, v any) error {
	body, err := c.get(ctx)
	if err != nil {
		return ErrFetch
	}
	if err := json.Unmarshal(body, v); err != nil {
		return ErrFetch
	}
	return nil
}

// FetchRaw issues one GET and returns the body after checking it is valid JSON.
func (c *Client) FetchRaw(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, ErrFetch
	}
	if !json.Valid(body) {
		return nil, ErrFetch
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Body == nil {
		return nil, errEmptyResponse
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errUnexpectedStatus
	}

	return io.ReadAll(resp.Body)
}
