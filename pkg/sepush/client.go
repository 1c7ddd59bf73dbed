package sepush

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Adda-Baaj/sepush/pkg/httpclient"
)

const defaultTimeout = 15 * time.Second

// Logger is the logging surface the client relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}

// Observer is told about every request the client completes.
type Observer interface {
	ObserveRequest(endpoint string, kind Kind, ok bool, elapsed time.Duration)
}

// Client calls the API with a fixed token. It holds no mutable state and may
// be shared between goroutines.
type Client struct {
	http     httpclient.Client
	token    string
	baseURL  string
	log      Logger
	observer Observer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient selects the transport. Defaults to a resty client.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithBaseURL overrides DefaultBaseURL, e.g. for tests or a proxy.
func WithBaseURL(base string) Option {
	return func(cl *Client) {
		if base = strings.TrimSpace(base); base != "" {
			cl.baseURL = base
		}
	}
}

// WithLogger sets the logger for request outcomes. Defaults to a no-op.
func WithLogger(log Logger) Option {
	return func(cl *Client) {
		if log != nil {
			cl.log = log
		}
	}
}

// WithObserver reports every request to o, e.g. a metrics recorder.
func WithObserver(o Observer) Option {
	return func(cl *Client) { cl.observer = o }
}

// New creates a client for token. A blank token yields ErrTokenNotSet.
func New(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &Error{Kind: KindTokenNotSet}
	}
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	return c, nil
}

// NewFromEnv creates a client with the token read from varName, or from
// DefaultTokenEnv when varName is empty.
func NewFromEnv(varName string, opts ...Option) (*Client, error) {
	token, err := TokenFromEnv(varName)
	if err != nil {
		return nil, err
	}
	return New(token, opts...)
}

// BaseURL returns the root the client resolves endpoints against.
func (c *Client) BaseURL() string { return c.baseURL }

// Status returns the national status and municipal overrides.
func (c *Client) Status(ctx context.Context) (EskomStatus, error) {
	return do[EskomStatus](ctx, c, NewStatusURL())
}

// AreaInfo returns events and schedule for an area id obtained from
// AreasSearch or AreasNearby.
func (c *Client) AreaInfo(ctx context.Context, id string) (AreaInfo, error) {
	e, err := NewAreaInfoURL(id)
	if err != nil {
		return AreaInfo{}, err
	}
	return do[AreaInfo](ctx, c, e)
}

// AreasSearch finds areas whose name matches text.
func (c *Client) AreasSearch(ctx context.Context, text string) (AreaSearch, error) {
	e, err := NewAreaSearchURL(text)
	if err != nil {
		return AreaSearch{}, err
	}
	return do[AreaSearch](ctx, c, e)
}

// AreasNearby lists areas around lat/long, closest first.
func (c *Client) AreasNearby(ctx context.Context, lat, long float64) (AreasNearby, error) {
	e, err := NewAreasNearbyURL(lat, long)
	if err != nil {
		return AreasNearby{}, err
	}
	return do[AreasNearby](ctx, c, e)
}

// TopicsNearby lists user topics around lat/long.
func (c *Client) TopicsNearby(ctx context.Context, lat, long float64) (TopicsNearby, error) {
	e, err := NewTopicsNearbyURL(lat, long)
	if err != nil {
		return TopicsNearby{}, err
	}
	return do[TopicsNearby](ctx, c, e)
}

// CheckAllowance does not count towards the token's quota.
func (c *Client) CheckAllowance(ctx context.Context) (AllowanceCheck, error) {
	return do[AllowanceCheck](ctx, c, NewAllowanceCheckURL())
}

func do[T any](ctx context.Context, c *Client, e Endpoint) (T, error) {
	start := time.Now()
	out, err := Fetch[T](ctx, c.http, c.baseURL, c.token, e)
	elapsed := time.Since(start)

	kind := KindOf(err)
	if c.observer != nil {
		c.observer.ObserveRequest(e.Path(), kind, err == nil, elapsed)
	}
	if err != nil {
		var apiErr *Error
		fields := map[string]any{
			"endpoint":   e.Path(),
			"kind":       kind.String(),
			"elapsed_ms": elapsed.Milliseconds(),
			"error":      err.Error(),
		}
		if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
			fields["status_code"] = apiErr.StatusCode
		}
		c.log.WarnObj("sepush request failed", "sepush_error", fields)
		return out, err
	}
	c.log.DebugObj("sepush request completed", "sepush_request", map[string]any{
		"endpoint":   e.Path(),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return out, nil
}
