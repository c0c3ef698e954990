package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	ErrBufferFull = errors.New("event buffer full")
	ErrClosed     = errors.New("event publisher closed")
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, env Envelope) error
	Close() error
}

// KafkaPublisher queues messages and writes them from a single goroutine.
// Publish never waits on the broker.
type KafkaPublisher struct {
	w       *kafka.Writer
	logger  *zap.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}
	started sync.Once

	mu     sync.RWMutex
	closed bool
}

func NewKafkaPublisher(brokers []string, buf int, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		logger:  logger,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the write loop until Close is called; queued messages are
// flushed before the writer is closed.
func (p *KafkaPublisher) Start() {
	p.started.Do(func() { go p.run() })
}

func (p *KafkaPublisher) run() {
	defer close(p.closeCh)
	for m := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.w.WriteMessages(ctx, m); err != nil {
			p.logger.Error("kafka write failed", zap.String("topic", m.Topic), zap.ByteString("key", m.Key), zap.Error(err))
		}
		cancel()
	}
	if err := p.w.Close(); err != nil {
		p.logger.Warn("kafka writer close", zap.Error(err))
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, key []byte, env Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   key,
		Value: b,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// Close stops accepting messages and waits for the queue to drain. Later
// Publish calls return ErrClosed. A publisher that was never started just
// closes its writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	p.started.Do(func() {
		defer close(p.closeCh)
		_ = p.w.Close()
	})
	<-p.closeCh
	return nil
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, topic string, key []byte, env Envelope) error { return nil }
func (Nop) Close() error { return nil }
