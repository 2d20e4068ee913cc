package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/config"
	"github.com/BarkinBalci/measurement-relay/internal/dispatch"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
	"github.com/BarkinBalci/measurement-relay/internal/queue"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
)

// Consumer orchestrates a pipeline of stages to process SQS messages
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	dispatcher  *DispatchStage
	batchWriter *BatchWriter
	bufferSize  int
}

// NewConsumer creates a new consumer with a pipeline architecture
func NewConsumer(
	cfg *config.Config,
	queueConsumer queue.QueueConsumer,
	collector *measurement.Collector,
	dispatcher dispatch.HitDispatcher,
	repo repository.HitRepository,
	log *zap.Logger,
) *Consumer {
	receiverConfig := ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
		BufferSize:      100,
		ErrorBackoff:    time.Second,
	}

	return &Consumer{
		receiver:   NewReceiver(queueConsumer, receiverConfig, log),
		parser:     NewParserStage(queueConsumer, NewJSONMessageParser(), log),
		dispatcher: NewDispatchStage(collector, dispatcher, DispatchConfig{
			Workers:     cfg.Consumer.DispatchWorkers,
			MaxAttempts: cfg.Consumer.MaxAttempts,
		}, log),
		batchWriter: NewBatchWriter(repo, BatchWriterConfig{
			MaxBatchSize: cfg.Consumer.BatchSizeMax,
			FlushTimeout: time.Duration(cfg.Consumer.BatchTimeoutSec) * time.Second,
		}, log),
		bufferSize: receiverConfig.BufferSize,
	}
}

// Start begins the consumer pipeline and blocks until every stage returns
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, c.bufferSize)
	envelopeChan := make(chan *Envelope, c.bufferSize)
	hitChan := make(chan *Envelope, c.bufferSize)

	var wg sync.WaitGroup

	wg.Add(4)

	// Stage 1: Receive messages from SQS
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Send to the collector
	go func() {
		defer wg.Done()
		c.dispatcher.Start(ctx, envelopeChan, hitChan)
	}()

	// Stage 4: Batch and write hits to the repository
	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, hitChan)
	}()

	wg.Wait()
	return nil
}
