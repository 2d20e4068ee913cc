package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/BarkinBalci/measurement-relay/internal/config"
	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

// Message attribute names set on every published event
const (
	AttributeEventID    = "EventID"
	AttributeEventType  = "EventType"
	AttributeTrackingID = "TrackingID"
)

// Client publishes translated-ready events to SQS and serves the consumer
type Client struct {
	client   *sqs.Client
	queueURL string
	log      *zap.Logger
}

// NewClient creates a new SQS client. A configured endpoint switches to
// static dummy credentials for a local ElasticMQ.
func NewClient(ctx context.Context, cfg envConfig.SQS, log *zap.Logger) (*Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	var clientOpts []func(*sqs.Options)

	if cfg.Endpoint != "" {
		log.Info("Using custom SQS endpoint", zap.String("endpoint", cfg.Endpoint))
		loadOpts = append(loadOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))
		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("SQS client created",
		zap.String("region", cfg.Region),
		zap.String("queue_url", cfg.QueueURL))

	return &Client{
		client:   sqs.NewFromConfig(awsCfg, clientOpts...),
		queueURL: cfg.QueueURL,
		log:      log,
	}, nil
}

// ReceiveMessages receives messages from SQS
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from SQS
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// QueueURL returns the configured queue URL
func (c *Client) QueueURL() string {
	return c.queueURL
}

func stringAttribute(value string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}

// newSendMessageInput serializes a queued event into a send request.
// SQS rejects empty attribute values, so the tracking id is only set when
// present.
func newSendMessageInput(queueURL string, event *domain.QueuedEvent, eventID string) (*sqs.SendMessageInput, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	attributes := map[string]types.MessageAttributeValue{
		AttributeEventID:   stringAttribute(eventID),
		AttributeEventType: stringAttribute(string(event.Event.Type)),
	}
	if trackingID := event.Settings[measurement.SettingMeasurementID]; trackingID != "" {
		attributes[AttributeTrackingID] = stringAttribute(trackingID)
	}

	return &sqs.SendMessageInput{
		QueueUrl:          aws.String(queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attributes,
	}, nil
}

// PublishEvent publishes an event and its destination settings to SQS
func (c *Client) PublishEvent(ctx context.Context, event *domain.QueuedEvent, eventID string) error {
	input, err := newSendMessageInput(c.queueURL, event, eventID)
	if err != nil {
		c.log.Error("Failed to encode event",
			zap.String("event_id", eventID),
			zap.Error(err))
		return err
	}

	if _, err := c.client.SendMessage(ctx, input); err != nil {
		c.log.Error("Failed to send message to SQS",
			zap.String("event_id", eventID),
			zap.String("event_type", string(event.Event.Type)),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Debug("Event published to SQS",
		zap.String("event_id", eventID),
		zap.String("event_type", string(event.Event.Type)))

	return nil
}
