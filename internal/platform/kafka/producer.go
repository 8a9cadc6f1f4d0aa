package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrProducerClosed is returned by Publish once Close has been called.
var ErrProducerClosed = errors.New("kafka producer closed")

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers messages in a channel and writes them from one goroutine.
// On shutdown the buffer is drained before the writer closes.
type Producer struct {
	w       MessageWriter
	inbox   chan kafka.Message
	stop    chan struct{}
	done    chan struct{}
	started atomic.Bool
	once    sync.Once
	logger  *slog.Logger
	timeout time.Duration
}

// NewProducer builds a producer for one topic. Messages with the same key land
// on the same partition.
func NewProducer(brokers []string, topic string, buf int, logger *slog.Logger) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, buf, logger)
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w MessageWriter, buf int, logger *slog.Logger) *Producer {
	if buf <= 0 {
		buf = 256
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Producer{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// Start runs the write loop until ctx is cancelled or Close is called.
func (p *Producer) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(p.done)
		defer func() {
			if err := p.w.Close(); err != nil {
				p.logger.Warn("kafka writer close failed", slog.String("error", err.Error()))
			}
		}()
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case <-p.stop:
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// Publish enqueues a message. It blocks only while the buffer is full.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	msg := kafka.Message{Key: key, Value: value, Time: time.Now().UTC(), Headers: headers}
	select {
	case <-p.stop:
		return ErrProducerClosed
	default:
	}
	select {
	case p.inbox <- msg:
		return nil
	case <-p.stop:
		return ErrProducerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages, flushes the buffer and waits for the writer.
func (p *Producer) Close() {
	p.once.Do(func() { close(p.stop) })
	if !p.started.Load() {
		_ = p.w.Close()
		return
	}
	<-p.done
}

func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.logger.Warn("kafka write failed", slog.String("kafka.key", string(m.Key)), slog.String("error", err.Error()))
	}
}

// BrokersFromEnv splits KAFKA_BROKERS on commas. An empty result disables publishing.
func BrokersFromEnv() []string {
	raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if raw == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
