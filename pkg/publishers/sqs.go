package publishers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/sepush/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.Credentials)
	if err != nil {
		return nil, err
	}
	return &awsPublisher{
		id:   cfg.ID,
		typ:  TypeSQS,
		send: sqsSender(sqs.NewFromConfig(awsCfg), cfg.SQS.QueueURL),
		log:  log,
	}, nil
}

// sqsSender sends the message body to queueURL with its attributes as
// string message attributes.
func sqsSender(api sqsAPI, queueURL string) sendFunc {
	return func(ctx context.Context, msg message) error {
		attrs := make(map[string]types.MessageAttributeValue, len(msg.Attributes))
		for k, v := range msg.Attributes {
			attrs[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}
		_, err := api.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:          aws.String(queueURL),
			MessageBody:       aws.String(string(msg.Body)),
			MessageAttributes: attrs,
		})
		if err != nil {
			return fmt.Errorf("sqs send message: %w", err)
		}
		return nil
	}
}
