package publishers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/sepush/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// sendFunc delivers one encoded message to an AWS destination.
type sendFunc func(ctx context.Context, msg message) error

// awsPublisher is shared by the SQS and SNS publishers; only the send step
// differs between them.
type awsPublisher struct {
	id   string
	typ  string
	send sendFunc
	log  logger.Logger
}

func (p *awsPublisher) ID() string   { return p.id }
func (p *awsPublisher) Type() string { return p.typ }

func (p *awsPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := newMessage(evt)
	if err != nil {
		return err
	}
	if err := p.send(ctx, msg); err != nil {
		p.log.ErrorObj("aws publish failed", "publisher_error", map[string]any{
			"publisher_id": p.id,
			"type":         p.typ,
			"event_id":     msg.ID,
			"error":        err.Error(),
		})
		return err
	}
	p.log.DebugObj("aws publish delivered", "publisher_delivery", map[string]any{
		"publisher_id": p.id,
		"type":         p.typ,
		"event_id":     msg.ID,
	})
	return nil
}

// loadAWSConfig resolves the default credential chain for region, or static
// credentials when creds carries an access key.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil && creds.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
