package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/Adda-Baaj/sepush/internal/logger"
	"google.golang.org/api/option"
)

// pubsubPublisher publishes to a Pub/Sub topic. PUBSUB_EMULATOR_HOST points
// the client at an emulator.
type pubsubPublisher struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    logger.Logger
}

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var opts []option.ClientOption
	if f := cfg.PubSub.CredentialsFile; f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	if e := cfg.PubSub.Endpoint; e != "" {
		opts = append(opts, option.WithEndpoint(e))
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &pubsubPublisher{
		id:     cfg.ID,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    log,
	}, nil
}

func (p *pubsubPublisher) ID() string   { return p.id }
func (p *pubsubPublisher) Type() string { return TypePubSub }

// Publish waits for the server to acknowledge the message.
func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := newMessage(evt)
	if err != nil {
		return err
	}
	serverID, err := p.topic.Publish(ctx, &pubsub.Message{Data: msg.Body, Attributes: msg.Attributes}).Get(ctx)
	if err != nil {
		return fmt.Errorf("pubsub publish: %w", err)
	}
	p.log.DebugObj("pubsub publish delivered", "publisher_delivery", map[string]any{
		"publisher_id": p.id,
		"event_id":     msg.ID,
		"message_id":   serverID,
	})
	return nil
}

// Close flushes pending messages and releases the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
