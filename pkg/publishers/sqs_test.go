package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Adda-Baaj/sepush/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func sqsTestPublisher(api sqsAPI) *awsPublisher {
	return &awsPublisher{
		id:   "queue",
		typ:  TypeSQS,
		send: sqsSender(api, "https://example.com/queue"),
		log:  logger.NopLogger{},
	}
}

func TestSQSPublisherSendsMessage(t *testing.T) {
	api := &fakeSQS{}
	evt := sampleEvent()
	if err := sqsTestPublisher(api).Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if api.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(api.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := api.input.MessageAttributes["region"]
	if !ok || aws.ToString(attr.StringValue) != "capetown" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("region attribute missing or wrong: %#v", attr)
	}
	if got := aws.ToString(api.input.MessageAttributes["event_id"].StringValue); got != evt.ID {
		t.Fatalf("event_id attribute = %q, want %q", got, evt.ID)
	}
	if body := aws.ToString(api.input.MessageBody); !strings.Contains(body, `"stage":"2"`) {
		t.Fatalf("MessageBody missing stage: %s", body)
	}
}

func TestSQSPublisherWrapsError(t *testing.T) {
	wantErr := errors.New("boom")
	err := sqsTestPublisher(&fakeSQS{err: wantErr}).Publish(context.Background(), sampleEvent())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
