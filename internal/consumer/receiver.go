package consumer

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/queue"
)

// ReceiverConfig configures the SQS receiver
type ReceiverConfig struct {
	MaxMessages     int32
	WaitTimeSeconds int32
	BufferSize      int
	// ErrorBackoff is the pause after a failed receive
	ErrorBackoff time.Duration
}

// Receiver long-polls the queue and feeds raw messages into the pipeline
type Receiver struct {
	queue  queue.QueueConsumer
	config ReceiverConfig
	log    *zap.Logger
}

// NewReceiver creates a new SQS receiver
func NewReceiver(q queue.QueueConsumer, config ReceiverConfig, log *zap.Logger) *Receiver {
	return &Receiver{
		queue:  q,
		config: config,
		log:    log,
	}
}

// Start polls until ctx is cancelled, then closes out
func (r *Receiver) Start(ctx context.Context, out chan<- types.Message) {
	defer close(out)
	defer r.log.Info("Receiver shutting down")

	for ctx.Err() == nil {
		messages, err := r.receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.log.Error("Error receiving messages from SQS", zap.Error(err))
			if !r.backoff(ctx) {
				return
			}
			continue
		}

		for _, msg := range messages {
			select {
			case <-ctx.Done():
				return
			case out <- msg:
			}
		}
	}
}

func (r *Receiver) receive(ctx context.Context) ([]types.Message, error) {
	result, err := r.queue.ReceiveMessages(ctx, r.receiveInput())
	if err != nil {
		return nil, err
	}

	if len(result.Messages) > 0 {
		r.log.Debug("Received messages from SQS", zap.Int("message_count", len(result.Messages)))
	}
	return result.Messages, nil
}

// receiveInput asks for the receive count so later stages can cap retries
func (r *Receiver) receiveInput() *awssqs.ReceiveMessageInput {
	return &awssqs.ReceiveMessageInput{
		QueueUrl:              aws.String(r.queue.QueueURL()),
		MaxNumberOfMessages:   r.config.MaxMessages,
		WaitTimeSeconds:       r.config.WaitTimeSeconds,
		MessageAttributeNames: []string{"All"},
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	}
}

// backoff reports false when ctx ends before the pause does
func (r *Receiver) backoff(ctx context.Context) bool {
	timer := time.NewTimer(r.config.ErrorBackoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
