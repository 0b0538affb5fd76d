package model

import "time"

// DonationStatus is the lifecycle state of a donation request.
type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusApproved  DonationStatus = "approved"
	StatusRejected  DonationStatus = "rejected"
	StatusCompleted DonationStatus = "completed"
)

// transitions lists, for each state, the states it may move to. Rejected
// and completed are terminal.
var transitions = map[DonationStatus][]DonationStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

// ParseDonationStatus reports whether s names one of the four states.
func ParseDonationStatus(s string) (DonationStatus, bool) {
	switch st := DonationStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return st, true
	}
	return "", false
}

// CanTransition reports whether a donation in state s may move to next.
func (s DonationStatus) CanTransition(next DonationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s DonationStatus) Terminal() bool { return len(transitions[s]) == 0 }

// DeletableStatuses are the states in which a request may still be
// withdrawn by its owner.
var DeletableStatuses = []DonationStatus{StatusPending, StatusRejected}

// Deletable reports whether a donation in state s may be deleted.
func (s DonationStatus) Deletable() bool {
	for _, d := range DeletableStatuses {
		if s == d {
			return true
		}
	}
	return false
}

// Donation mirrors a row of the `donation_history` table.
//
// Fields:
//
//	ID           – primary key identifier.
//	UserID       – donor who made the request.
//	BloodBankID  – bank where the donation takes place.
//	DonationDate – scheduled (or actual) day of the donation.
//	BloodType    – donor blood type at the time of the request.
//	Quantity     – volume in millilitres.
//	Status       – lifecycle state, see DonationStatus.
//	Notes        – optional free text, set by the donor or the bank.
//	CreatedAt    – creation timestamp.
type Donation struct {
	ID           uint64         `db:"id" json:"id"`
	UserID       uint64         `db:"user_id" json:"user_id"`
	BloodBankID  uint64         `db:"blood_bank_id" json:"blood_bank_id"`
	DonationDate Date           `db:"donation_date" json:"donation_date"`
	BloodType    string         `db:"blood_type" json:"blood_type"`
	Quantity     int            `db:"quantity" json:"quantity"`
	Status       DonationStatus `db:"status" json:"status"`
	Notes        *string        `db:"notes" json:"notes"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// DonationView is a donation joined with the names of the bank and, for
// single-record reads, the requester.
type DonationView struct {
	Donation
	BloodBankName string  `db:"blood_bank_name" json:"blood_bank_name"`
	UserName      *string `db:"user_name" json:"user_name,omitempty"`
}
