package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/config"
)

var ErrNotConfirmed = errors.New("event not confirmed by broker")

// RabbitMQ publishes events as persistent JSON messages on a durable queue
// and waits for the broker's confirm.
type RabbitMQ struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	confirms chan amqp.Confirmation
	log      *zap.Logger
	mu       sync.Mutex
}

// NewRabbitMQ dials the broker and declares the queue.
func NewRabbitMQ(cfg config.EventsConfig, log *zap.Logger) (*RabbitMQ, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", cfg.Queue, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enabling confirms: %w", err)
	}

	log.Info("connected to rabbitmq", zap.String("queue", cfg.Queue))
	return &RabbitMQ{
		conn:     conn,
		ch:       ch,
		queue:    cfg.Queue,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		log:      log,
	}, nil
}

// Publish sends e and blocks until the broker confirms it or ctx is done.
func (r *RabbitMQ) Publish(ctx context.Context, e Event) error {
	body, err := e.encode()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.At,
	}
	if err := r.ch.PublishWithContext(ctx, "", r.queue, false, false, msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", r.queue, err)
	}

	select {
	case confirmed := <-r.confirms:
		if !confirmed.Ack {
			return fmt.Errorf("publishing to %s: %w", r.queue, ErrNotConfirmed)
		}
	case <-ctx.Done():
		return fmt.Errorf("publishing to %s: %w", r.queue, ctx.Err())
	}
	return nil
}

// Subscribe consumes the queue on its own channel. Messages that do not
// decode are logged and dropped.
func (r *RabbitMQ) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("opening consumer channel: %w", err)
	}
	deliveries, err := ch.ConsumeWithContext(ctx, r.queue, "", true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consuming %s: %w", r.queue, err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer func() { _ = ch.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				e, err := decode(d.Body)
				if err != nil {
					r.log.Warn("dropping malformed event", zap.Error(err))
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		_ = r.conn.Close()
		return fmt.Errorf("closing channel: %w", err)
	}
	return r.conn.Close()
}

// Open returns a RabbitMQ bus when events are enabled and a Nop otherwise.
func Open(cfg config.EventsConfig, log *zap.Logger) (Bus, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	return NewRabbitMQ(cfg, log)
}
