package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	maxBackoff   = 30 * time.Second
	auditLogName = "donation.log"
)

// StartDonationConsumer connects to RabbitMQ, declares the events queue and
// appends one line per event to <logDir>/donation.log. It reconnects with
// exponential backoff and returns only when ctx is cancelled.
func StartDonationConsumer(ctx context.Context, url, queue, logDir string) error {
	if queue == "" {
		queue = QueueName
	}
	log := logrus.WithField("component", "donation-consumer")

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queue, logDir)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue, logDir string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logrus.WithError(err).Warn("donation-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := appendEventLine(logDir, d.Body); err != nil {
				logrus.WithError(err).Warn("donation-consumer: handle message failed")
				_ = d.Nack(false, false) // no requeue, avoids a poison-message loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// appendEventLine decodes one event and appends its audit line.
func appendEventLine(logDir string, body []byte) error {
	var ev DonationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.DonationID == 0 {
		return errors.New("event without type or donation id")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", logDir, err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, auditLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(formatLine(ev))
	return err
}

func formatLine(ev DonationEvent) string {
	line := fmt.Sprintf("[%s] %s | event_id=%s | donation_id=%d | user_id=%d | blood_bank_id=%d",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.EventID, ev.DonationID, ev.UserID, ev.BloodBankID)
	if ev.FromStatus != "" || ev.ToStatus != "" {
		line += fmt.Sprintf(" | %s -> %s", ev.FromStatus, ev.ToStatus)
	}
	return line + "\n"
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
