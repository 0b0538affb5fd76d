package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/donordarah/donor-darah-api/internal/metrics"
	"github.com/donordarah/donor-darah-api/internal/model"
	"github.com/donordarah/donor-darah-api/internal/queue"
	"github.com/donordarah/donor-darah-api/internal/repository"
)

// DonationStore persists donation requests. UpdateStatus and Delete are
// conditional on the current status (see repository.DonationRepo).
type DonationStore interface {
	Create(ctx context.Context, d *model.Donation) error
	GetByID(ctx context.Context, id uint64) (model.Donation, error)
	GetView(ctx context.Context, id uint64) (model.DonationView, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.DonationView, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.DonationStatus, notes *string) error
	Delete(ctx context.Context, id uint64, allowed []model.DonationStatus) error
}

// CreateDonationInput is the body of a new donation request.
type CreateDonationInput struct {
	UserID       uint64  `json:"user_id" validate:"required"`
	BloodBankID  uint64  `json:"blood_bank_id" validate:"required"`
	DonationDate string  `json:"donation_date" validate:"required"`
	BloodType    string  `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Quantity     int     `json:"quantity" validate:"required,gt=0,lte=1000"`
	Notes        *string `json:"notes"`
}

// DonationService runs the donation lifecycle.
type DonationService struct {
	store     DonationStore
	publisher queue.Publisher
}

func NewDonationService(store DonationStore, publisher queue.Publisher) *DonationService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &DonationService{store: store, publisher: publisher}
}

// Create validates in and stores a pending donation. Nothing reaches the
// store unless every field is valid.
func (s *DonationService) Create(ctx context.Context, in CreateDonationInput) (model.Donation, error) {
	in.BloodType, _ = model.NormalizeBloodType(in.BloodType)
	in.DonationDate = strings.TrimSpace(in.DonationDate)
	if err := checkStruct(in); err != nil {
		return model.Donation{}, err
	}
	day, err := model.ParseDate(in.DonationDate)
	if err != nil {
		return model.Donation{}, invalid("donation_date", "must be a date in YYYY-MM-DD format")
	}

	d := model.Donation{
		UserID:       in.UserID,
		BloodBankID:  in.BloodBankID,
		DonationDate: day,
		BloodType:    in.BloodType,
		Quantity:     in.Quantity,
		Status:       model.StatusPending,
		Notes:        trimNotes(in.Notes),
	}
	if err := s.store.Create(ctx, &d); err != nil {
		if errors.Is(err, repository.ErrUnknownReference) {
			return model.Donation{}, invalid("blood_bank_id", "unknown blood bank or user")
		}
		return model.Donation{}, fmt.Errorf("create donation: %w", err)
	}

	metrics.RecordCreated()
	s.publish(ctx, queue.NewDonationEvent(queue.EventDonationCreated, d.ID, d.UserID, d.BloodBankID, "", string(d.Status)))
	return d, nil
}

// UpdateStatus moves donation id to newStatus. Notes replace the stored
// notes only when non-nil.
func (s *DonationService) UpdateStatus(ctx context.Context, id uint64, newStatus string, notes *string) (model.Donation, error) {
	next, ok := model.ParseDonationStatus(newStatus)
	if !ok {
		return model.Donation{}, invalid("status", "must be one of pending, approved, rejected, completed")
	}
	cur, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Donation{}, ErrNotFound
	}
	if err != nil {
		return model.Donation{}, fmt.Errorf("load donation %d: %w", id, err)
	}
	if !cur.Status.CanTransition(next) {
		return model.Donation{}, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, cur.Status, next)
	}

	notes = trimNotes(notes)
	switch err := s.store.UpdateStatus(ctx, id, cur.Status, next, notes); {
	case errors.Is(err, repository.ErrStatusMismatch):
		return model.Donation{}, fmt.Errorf("%w: donation %d changed concurrently", ErrInvalidTransition, id)
	case errors.Is(err, repository.ErrNotFound):
		return model.Donation{}, ErrNotFound
	case err != nil:
		return model.Donation{}, fmt.Errorf("update donation %d: %w", id, err)
	}

	from := cur.Status
	cur.Status = next
	if notes != nil {
		cur.Notes = notes
	}
	metrics.RecordTransition(string(from), string(next))
	s.publish(ctx, queue.NewDonationEvent(queue.EventDonationStatusChanged, cur.ID, cur.UserID, cur.BloodBankID, string(from), string(next)))
	return cur, nil
}

// ListByUser returns a donor's history, newest donation date first.
func (s *DonationService) ListByUser(ctx context.Context, userID uint64) ([]model.DonationView, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list donations of user %d: %w", userID, err)
	}
	if list == nil {
		list = []model.DonationView{}
	}
	return list, nil
}

// Get returns one donation with bank and donor names.
func (s *DonationService) Get(ctx context.Context, id uint64) (model.DonationView, error) {
	v, err := s.store.GetView(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.DonationView{}, ErrNotFound
	}
	if err != nil {
		return model.DonationView{}, fmt.Errorf("get donation %d: %w", id, err)
	}
	return v, nil
}

// Delete withdraws a donation. Only its owner may do so, and only while it
// is pending or rejected.
func (s *DonationService) Delete(ctx context.Context, id, requesterID uint64) error {
	cur, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load donation %d: %w", id, err)
	}
	if cur.UserID != requesterID {
		return ErrForbidden
	}
	if !cur.Status.Deletable() {
		return fmt.Errorf("%w: a %s donation cannot be deleted", ErrInvalidTransition, cur.Status)
	}

	switch err := s.store.Delete(ctx, id, model.DeletableStatuses); {
	case errors.Is(err, repository.ErrStatusMismatch):
		return fmt.Errorf("%w: donation %d changed concurrently", ErrInvalidTransition, id)
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("delete donation %d: %w", id, err)
	}

	s.publish(ctx, queue.NewDonationEvent(queue.EventDonationDeleted, cur.ID, cur.UserID, cur.BloodBankID, string(cur.Status), ""))
	return nil
}

// publish never fails the caller; a lost event is only logged.
func (s *DonationService) publish(ctx context.Context, ev queue.DonationEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":       ev.Type,
			"donation_id": ev.DonationID,
		}).Warn("donation event not published")
	}
}

func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	n := strings.TrimSpace(*notes)
	return &n
}
