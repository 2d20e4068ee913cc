package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// QueuePublisher hands events to the consumer instead of dispatching inline.
// eventID is the idempotency key reported back to the caller.
type QueuePublisher interface {
	PublishEvent(ctx context.Context, event *domain.QueuedEvent, eventID string) error
}

// QueueConsumer is the subset of the SQS API the consumer pipeline uses
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
