package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// Queue is a durable port.JobQueue on a RabbitMQ queue. Messages are persistent and acknowledged
// only after processing, so a job can be delivered more than once.
type Queue struct {
	conn      *amqp.Connection
	pubCh     *amqp.Channel
	pubMu     sync.Mutex
	consMu    sync.Mutex
	consumers []*amqp.Channel
	name      string
	prefetch  int
	closeOnce sync.Once
}

// NewQueue connects to url and declares the durable queue name.
func NewQueue(url, name string, prefetch int) (*Queue, error) {
	if url == "" {
		return nil, fmt.Errorf("rabbitmq: url is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dialing: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: opening channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declaring queue %s: %w", name, err)
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	log.Info().Str("queue", name).Msg("connected to rabbitmq")

	return &Queue{
		conn:     conn,
		pubCh:    ch,
		name:     name,
		prefetch: prefetch,
	}, nil
}

var _ port.JobQueue = (*Queue)(nil)

func (q *Queue) Publish(ctx context.Context, job domain.FileJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("rabbitmq: encoding job: %w", err)
	}

	q.pubMu.Lock()
	defer q.pubMu.Unlock()

	err = q.pubCh.PublishWithContext(ctx,
		"",     // default exchange
		q.name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publishing job: %w", err)
	}
	return nil
}

func (q *Queue) Consume(ctx context.Context) (<-chan port.Delivery, error) {
	ch, err := q.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: opening consumer channel: %w", err)
	}
	if err := ch.Qos(q.prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq: setting qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx,
		q.name,
		"",    // consumer tag, generated by the server
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq: registering consumer: %w", err)
	}

	// The channel stays open after ctx is done so jobs still in flight can be acknowledged.
	// Close releases it.
	q.consMu.Lock()
	q.consumers = append(q.consumers, ch)
	q.consMu.Unlock()

	out := make(chan port.Delivery)
	go q.forward(ctx, deliveries, out)

	return out, nil
}

// forward decodes broker deliveries onto out until ctx is done or the broker stops delivering.
func (q *Queue) forward(ctx context.Context, deliveries <-chan amqp.Delivery, out chan<- port.Delivery) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Warn().Str("queue", q.name).Msg("rabbitmq: delivery channel closed")
				return
			}

			var job domain.FileJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Error().Err(err).Str("queue", q.name).Msg("rabbitmq: dropping undecodable message")
				_ = d.Nack(false, false)
				continue
			}

			delivery := d
			select {
			case out <- port.Delivery{
				Job:  job,
				Ack:  func() error { return delivery.Ack(false) },
				Nack: func(requeue bool) error { return delivery.Nack(false, requeue) },
			}:
			case <-ctx.Done():
				_ = d.Nack(false, true)
				return
			}
		}
	}
}

// Close closes the consumer channels, the publishing channel and the connection. Call it only
// after the worker has drained, since unacknowledged deliveries are requeued by the broker.
func (q *Queue) Close() error {
	var err error
	q.closeOnce.Do(func() {
		q.consMu.Lock()
		for _, ch := range q.consumers {
			_ = ch.Close()
		}
		q.consumers = nil
		q.consMu.Unlock()

		_ = q.pubCh.Close()
		err = q.conn.Close()
	})
	return err
}
