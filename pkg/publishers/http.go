package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/sepush/internal/logger"
	"github.com/Adda-Baaj/sepush/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const maxErrorBody = 512

// webhookPublisher sends the encoded event as a JSON request body. Static
// headers are set once on the resty client.
type webhookPublisher struct {
	id     string
	method string
	url    string
	client *resty.Client
	log    logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.HTTP.Headers)
	return &webhookPublisher{
		id:     cfg.ID,
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: client,
		log:    log,
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

// Publish fails on transport errors and on any non-2xx status.
func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := newMessage(evt)
	if err != nil {
		return err
	}
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Event-ID", msg.ID).
		SetBody(msg.Body).
		Execute(w.method, w.url)
	if err != nil {
		return fmt.Errorf("webhook %s %s: %w", w.method, w.url, err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(string(resp.Body()))
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fmt.Errorf("webhook responded %d: %s", resp.StatusCode(), body)
	}
	w.log.DebugObj("webhook delivered", "publisher_delivery", map[string]any{
		"publisher_id": w.id,
		"event_id":     msg.ID,
		"status_code":  resp.StatusCode(),
	})
	return nil
}
