// ABOUTME: RabbitMQ publisher for domain events
// ABOUTME: Persistent JSON messages on a durable queue via the default exchange

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultDialTimeout  = 2 * time.Second
	defaultRetryBackoff = 5 * time.Second
)

// ErrReconnectPending is returned by Publish while the publisher is waiting
// out the backoff that follows a failed dial.
var ErrReconnectPending = errors.New("rabbitmq reconnect pending")

// AMQPPublisher publishes events to one durable RabbitMQ queue. The connection
// is opened lazily and re-established after a failure. A dial never takes
// longer than the dial timeout, and after a failed dial Publish fails fast
// until the retry backoff has elapsed.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *slog.Logger

	dialTimeout  time.Duration
	retryBackoff time.Duration
	now          func() time.Time

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// AMQPOption configures an AMQPPublisher.
type AMQPOption func(*AMQPPublisher)

// WithDialTimeout bounds connection setup, including the AMQP handshake.
func WithDialTimeout(d time.Duration) AMQPOption {
	return func(p *AMQPPublisher) {
		if d > 0 {
			p.dialTimeout = d
		}
	}
}

// WithRetryBackoff sets how long Publish fails fast after a failed dial.
func WithRetryBackoff(d time.Duration) AMQPOption {
	return func(p *AMQPPublisher) {
		if d >= 0 {
			p.retryBackoff = d
		}
	}
}

// NewAMQPPublisher creates a publisher for queue on the broker at url.
func NewAMQPPublisher(url, queue string, logger *slog.Logger, opts ...AMQPOption) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &AMQPPublisher{
		url:          url,
		queue:        queue,
		logger:       logger.With("component", "events", "queue", queue),
		dialTimeout:  defaultDialTimeout,
		retryBackoff: defaultRetryBackoff,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// dialTimeoutFor shortens the dial timeout to the context deadline, if sooner.
func (p *AMQPPublisher) dialTimeoutFor(ctx context.Context) time.Duration {
	timeout := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	return timeout
}

// channel returns an open channel, dialing if needed. Caller holds mu.
func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()

	if now := p.now(); now.Before(p.retryAt) {
		return nil, fmt.Errorf("%w: retrying in %s", ErrReconnectPending, p.retryAt.Sub(now).Round(time.Millisecond))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := p.dialTimeoutFor(ctx)
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.retryAt = p.now().Add(p.retryBackoff)
		p.logger.Warn("rabbitmq unreachable", "error", err, "retry_in", p.retryBackoff)
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	// Durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declaring queue: %w", err)
	}

	p.conn = conn
	p.ch = ch
	p.retryAt = time.Time{}
	p.logger.Info("connected to rabbitmq")
	return ch, nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Publish sends ev as a persistent JSON message routed to the queue.
func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.resetLocked()
		return fmt.Errorf("publishing %s: %w", ev.Type, err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}
