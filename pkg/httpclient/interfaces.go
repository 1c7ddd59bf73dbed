package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

const (
	TransportResty = "resty"
	TransportHTTP  = "http"
)

// New returns the transport registered under name. An empty name selects resty.
func New(name string, timeout time.Duration) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", TransportResty:
		return NewRestyClient(timeout), nil
	case TransportHTTP, "net/http", "std":
		return NewStdClient(timeout), nil
	default:
		return nil, fmt.Errorf("unsupported http transport %q", name)
	}
}
