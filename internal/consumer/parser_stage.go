package consumer

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/queue"
)

// ParserStage decodes raw SQS messages into envelopes. Messages that cannot
// be decoded are deleted straight away.
type ParserStage struct {
	queue  queue.QueueConsumer
	parser MessageParser
	log    *zap.Logger
}

// NewParserStage creates a new parser stage
func NewParserStage(q queue.QueueConsumer, parser MessageParser, log *zap.Logger) *ParserStage {
	return &ParserStage{
		queue:  q,
		parser: parser,
		log:    log,
	}
}

// Start decodes messages from in until it closes or ctx is cancelled
func (p *ParserStage) Start(ctx context.Context, in <-chan types.Message, out chan<- *Envelope) {
	defer close(out)
	defer p.log.Info("Parser stage shutting down")

	for {
		var msg types.Message
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			msg = m
		}

		envelope := p.parseMessage(ctx, msg)
		if envelope == nil {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case out <- envelope:
		}
	}
}

// parseMessage returns nil for a message that was dropped
func (p *ParserStage) parseMessage(ctx context.Context, msg types.Message) *Envelope {
	messageID := aws.ToString(msg.MessageId)

	event, err := p.parser.Parse([]byte(aws.ToString(msg.Body)))
	if err != nil {
		p.log.Warn("Dropping undecodable message",
			zap.String("message_id", messageID),
			zap.Error(err))
		// deleteMessage logs its own failure; the message comes back after
		// the visibility timeout and is dropped again.
		_ = p.deleteMessage(ctx, msg)
		return nil
	}

	envelope := NewEnvelope(event,
		func(ctx context.Context) error { return p.deleteMessage(ctx, msg) },
		// Left on the queue; it reappears after the visibility timeout
		func(context.Context) error { return nil },
	)
	envelope.Attempt = receiveCount(msg)
	return envelope
}

// receiveCount reads ApproximateReceiveCount, treating a missing or
// malformed value as the first delivery
func receiveCount(msg types.Message) int {
	raw, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (p *ParserStage) deleteMessage(ctx context.Context, msg types.Message) error {
	_, err := p.queue.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(p.queue.QueueURL()),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		p.log.Error("Failed to delete message",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
		return err
	}

	p.log.Debug("Deleted message from SQS", zap.String("message_id", aws.ToString(msg.MessageId)))
	return nil
}
