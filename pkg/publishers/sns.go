package publishers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/sepush/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.Credentials)
	if err != nil {
		return nil, err
	}
	return &awsPublisher{
		id:   cfg.ID,
		typ:  TypeSNS,
		send: snsSender(sns.NewFromConfig(awsCfg), cfg.SNS.TopicARN),
		log:  log,
	}, nil
}

// snsSender publishes to topicARN with a human readable subject, e.g.
// "Cape Town: Stage 2", for email subscriptions.
func snsSender(api snsAPI, topicARN string) sendFunc {
	return func(ctx context.Context, msg message) error {
		attrs := make(map[string]types.MessageAttributeValue, len(msg.Attributes))
		for k, v := range msg.Attributes {
			attrs[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}
		_, err := api.Publish(ctx, &sns.PublishInput{
			TopicArn:          aws.String(topicARN),
			Subject:           aws.String(msg.Subject),
			Message:           aws.String(string(msg.Body)),
			MessageAttributes: attrs,
		})
		if err != nil {
			return fmt.Errorf("sns publish: %w", err)
		}
		return nil
	}
}
