package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StdClient is a minimal blocking transport on top of net/http.
type StdClient struct {
	client *http.Client
}

// NewStdClient creates a StdClient with its own http.Client.
func NewStdClient(timeout time.Duration) *StdClient {
	return &StdClient{client: &http.Client{Timeout: timeout}}
}

// NewStdClientFrom wraps an existing http.Client, e.g. one with a custom Transport.
func NewStdClientFrom(c *http.Client) *StdClient {
	if c == nil {
		c = http.DefaultClient
	}
	return &StdClient{client: c}
}

// Get performs a single GET and reads the whole body.
func (s *StdClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return stdResponse{body: body, statusCode: resp.StatusCode}, nil
}

type stdResponse struct {
	body       []byte
	statusCode int
}

func (r stdResponse) Body() []byte    { return r.body }
func (r stdResponse) StatusCode() int { return r.statusCode }
