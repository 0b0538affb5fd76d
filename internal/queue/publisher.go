package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends donation events to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev DonationEvent) error
}

// NopPublisher drops every event. It is used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, DonationEvent) error { return nil }

// AMQPPublisher publishes events to a durable RabbitMQ queue. Each publish
// opens its own connection; event volume is a handful per donation, so
// connection reuse is not worth the reconnect bookkeeping.
type AMQPPublisher struct {
	URL   string
	Queue string
}

func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	if queue == "" {
		queue = QueueName
	}
	return &AMQPPublisher{URL: url, Queue: queue}
}

// Publish marshals ev and publishes it persistent on the default exchange
// with the queue name as routing key. Errors are logged and returned so
// callers may ignore them without interrupting the request.
func (p *AMQPPublisher) Publish(ctx context.Context, ev DonationEvent) error {
	log := logrus.WithFields(logrus.Fields{"queue": p.Queue, "event": ev.Type, "donation_id": ev.DonationID})

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
