// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ publisher and consumer that carry them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// QueueName is the durable queue donation events are published to.
const QueueName = "donation.events"

// Event types.
const (
	EventDonationCreated       = "donation.created"
	EventDonationStatusChanged = "donation.status_changed"
	EventDonationDeleted       = "donation.deleted"
)

// DonationEvent is published whenever a donation request is created, moves
// between states or is withdrawn. It carries enough for downstream
// consumers to audit the change without querying the primary database.
type DonationEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	DonationID  uint64    `json:"donation_id"`
	UserID      uint64    `json:"user_id"`
	BloodBankID uint64    `json:"blood_bank_id"`
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewDonationEvent stamps a fresh event id and the current UTC time.
func NewDonationEvent(typ string, donationID, userID, bankID uint64, from, to string) DonationEvent {
	return DonationEvent{
		EventID:     uuid.NewString(),
		Type:        typ,
		DonationID:  donationID,
		UserID:      userID,
		BloodBankID: bankID,
		FromStatus:  from,
		ToStatus:    to,
		OccurredAt:  time.Now().UTC(),
	}
}
