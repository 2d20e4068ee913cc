package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
)

// MockHitRepository is a mock implementation of repository.HitRepository
type MockHitRepository struct {
	mock.Mock
}

func (m *MockHitRepository) InsertBatch(ctx context.Context, hits []*domain.Hit) (int, error) {
	args := m.Called(ctx, hits)
	return args.Int(0), args.Error(1)
}

func (m *MockHitRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHitRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHitRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockHitRepository) GetMetrics(ctx context.Context, query repository.MetricsQuery) (*repository.MetricsResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MetricsResult), args.Error(1)
}

// ackCounter records envelope acknowledgments
type ackCounter struct {
	acks  atomic.Int32
	nacks atomic.Int32
}

func (c *ackCounter) envelope(eventID string) *Envelope {
	envelope := NewEnvelope(queuedTrackEvent(eventID, "purchase"),
		func(context.Context) error {
			c.acks.Add(1)
			return nil
		},
		func(context.Context) error {
			c.nacks.Add(1)
			return nil
		})
	envelope.Hit = &domain.Hit{
		EventID:      eventID,
		EventType:    "track",
		EventName:    "purchase",
		TrackingID:   testTrackingID,
		Status:       204,
		DispatchedAt: time.Unix(testTimestamp, 0).UTC(),
	}
	return envelope
}

func hitCount(n int) any {
	return mock.MatchedBy(func(hits []*domain.Hit) bool {
		return len(hits) == n
	})
}

func runWriter(writer *BatchWriter, ctx context.Context, in <-chan *Envelope) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		writer.Start(ctx, in)
		close(done)
	}()
	return done
}

func TestBatchWriter_Start_BatchSizeThreshold(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 3,
		FlushTimeout: 10 * time.Second,
	}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, hitCount(3)).Return(3, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 3)
	runWriter(writer, ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")
	in <- counter.envelope("3")

	assert.Eventually(t, func() bool { return counter.acks.Load() == 3 }, time.Second, 5*time.Millisecond)
	mockRepo.AssertExpectations(t)
}

func TestBatchWriter_Start_TimeoutFlush(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 100,
		FlushTimeout: 30 * time.Millisecond,
	}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, hitCount(2)).Return(2, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 2)
	runWriter(writer, ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")

	assert.Eventually(t, func() bool { return counter.acks.Load() == 2 }, time.Second, 5*time.Millisecond)
	mockRepo.AssertExpectations(t)
}

func TestBatchWriter_Start_InsertFailureStillAcks(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 2,
		FlushTimeout: 10 * time.Second,
	}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, hitCount(2)).Return(0, errors.New("clickhouse unavailable")).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 2)
	runWriter(writer, ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")

	assert.Eventually(t, func() bool { return counter.acks.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), counter.nacks.Load())
	mockRepo.AssertExpectations(t)
}

func TestBatchWriter_Start_PartialInsert(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 2,
		FlushTimeout: 10 * time.Second,
	}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, hitCount(2)).Return(1, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 2)
	runWriter(writer, ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")

	assert.Eventually(t, func() bool { return counter.acks.Load() == 2 }, time.Second, 5*time.Millisecond)
	mockRepo.AssertExpectations(t)
}

func TestBatchWriter_Start_GracefulShutdown(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 10,
		FlushTimeout: 10 * time.Second,
	}, zap.NewNop())

	var insertCtxErr error
	mockRepo.On("InsertBatch", mock.Anything, hitCount(2)).
		Run(func(args mock.Arguments) {
			insertCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return(2, nil)

	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan *Envelope, 5)
	done := runWriter(writer, ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")

	// Give time for messages to be received
	time.Sleep(10 * time.Millisecond)

	cancel()

	// Pending hits are flushed as soon as the context is cancelled
	assert.Eventually(t, func() bool { return counter.acks.Load() == 2 }, 200*time.Millisecond, 5*time.Millisecond)

	close(in)

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Graceful shutdown took too long")
	}

	mockRepo.AssertExpectations(t)
	assert.NoError(t, insertCtxErr, "final flush should not use the cancelled context")
}

func TestBatchWriter_Start_DrainsAfterCancel(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 500,
		FlushTimeout: 10 * time.Second,
	}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, mock.Anything).
		Return(50, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan *Envelope, 50)
	for i := 0; i < 50; i++ {
		in <- counter.envelope(fmt.Sprintf("%d", i))
	}
	done := runWriter(writer, ctx, in)

	// More dispatched envelopes keep arriving until upstream closes
	in <- counter.envelope("late")
	close(in)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer did not return after input closed")
	}

	assert.Equal(t, int32(51), counter.acks.Load())
	assert.Empty(t, in)
}

func TestBatchWriter_Start_InputChannelClosed(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 10,
		FlushTimeout: 10 * time.Second,
	}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, hitCount(2)).Return(2, nil)

	in := make(chan *Envelope, 5)
	done := runWriter(writer, context.Background(), in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")
	close(in)

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Shutdown took too long after input channel closed")
	}

	mockRepo.AssertExpectations(t)
	assert.Equal(t, int32(2), counter.acks.Load())
}

func TestBatchWriter_Start_EmptyBatchNotFlushed(t *testing.T) {
	mockRepo := new(MockHitRepository)

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 10,
		FlushTimeout: 20 * time.Millisecond,
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	in := make(chan *Envelope)
	done := runWriter(writer, ctx, in)

	<-ctx.Done()
	close(in)
	<-done

	mockRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestBatchWriter_Start_MultipleBatches(t *testing.T) {
	mockRepo := new(MockHitRepository)
	counter := &ackCounter{}

	writer := NewBatchWriter(mockRepo, BatchWriterConfig{
		MaxBatchSize: 2,
		FlushTimeout: 10 * time.Second,
	}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, hitCount(2)).Return(2, nil).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 6)
	runWriter(writer, ctx, in)

	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		in <- counter.envelope(id)
	}

	assert.Eventually(t, func() bool { return counter.acks.Load() == 6 }, time.Second, 5*time.Millisecond)
	mockRepo.AssertExpectations(t)
}
