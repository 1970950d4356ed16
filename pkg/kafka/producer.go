package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("kafka producer closed")

// Producer buffers messages in a channel and writes them from a single goroutine.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	done    chan struct{}
	logger  *zap.Logger
	mu      sync.RWMutex
	closed  bool
	started bool
}

func NewProducer(brokers []string, topic string, buf int, logger *zap.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:  make(chan kafka.Message, buf),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start runs the writer loop until Close drains the inbox.
func (p *Producer) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				p.logger.Error("kafka_write_failed", zap.ByteString("key", m.Key), zap.Error(err))
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.logger.Warn("kafka_writer_close_failed", zap.Error(err))
		}
	}()
}

// Publish enqueues a message. Messages with the same key land on the same partition.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	msg := kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}
	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages, flushes the inbox and waits for the writer loop.
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.inbox)
	started := p.started
	p.mu.Unlock()

	if !started {
		return p.w.Close()
	}
	<-p.done
	return nil
}
