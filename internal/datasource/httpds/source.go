package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Source is a datasource.Source that downloads one URL.
type Source struct {
	client *Client
	url    string
}

// NewSource binds c to url.
func NewSource(c *Client, url string) *Source {
	return &Source{client: c, url: url}
}

// URL returns the configured URL.
func (s *Source) URL() string { return s.url }

// Open GETs the URL and returns the body. Any non-2xx final response is an
// error.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url, http.Header{"Accept": {"text/csv, */*"}})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("httpds: GET %s: unexpected status %s", s.url, resp.Status)
	}
	return resp.Body, nil
}
