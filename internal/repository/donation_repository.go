package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/donordarah/donor-darah-api/internal/model"
)

const donationColumns = "d.id, d.user_id, d.blood_bank_id, d.donation_date, d.blood_type, d.quantity, d.status, d.notes, d.created_at"

// DonationRepo stores donation requests in the 'donation_history' table.
// Status changes and deletions are conditional on the current status so a
// concurrent writer can never push a row through an illegal transition.
type DonationRepo struct {
	db *sqlx.DB
}

// NewDonationRepo returns a new DonationRepo bound to the given database.
func NewDonationRepo(db *sqlx.DB) *DonationRepo { return &DonationRepo{db: db} }

// Create inserts d (status pending unless set) and refreshes it from the
// stored row.  An unknown user or bank yields ErrUnknownReference.
func (r *DonationRepo) Create(ctx context.Context, d *model.Donation) error {
	if d.Status == "" {
		d.Status = model.StatusPending
	}
	const q = `INSERT INTO donation_history
	           (user_id, blood_bank_id, donation_date, blood_type, quantity, status, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		d.UserID, d.BloodBankID, d.DonationDate, d.BloodType, d.Quantity, d.Status, d.Notes)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*d = stored
	return nil
}

// GetByID returns the bare donation row.
func (r *DonationRepo) GetByID(ctx context.Context, id uint64) (model.Donation, error) {
	var d model.Donation
	err := r.db.GetContext(ctx, &d, "SELECT "+donationColumns+" FROM donation_history d WHERE d.id = ?", id)
	return d, notFound(err)
}

// GetView returns the donation joined with bank and donor names.
func (r *DonationRepo) GetView(ctx context.Context, id uint64) (model.DonationView, error) {
	const q = "SELECT " + donationColumns + `, bb.name AS blood_bank_name, u.name AS user_name
	           FROM donation_history d
	           JOIN blood_banks bb ON bb.id = d.blood_bank_id
	           JOIN users u ON u.id = d.user_id
	           WHERE d.id = ?`
	var v model.DonationView
	err := r.db.GetContext(ctx, &v, q, id)
	return v, notFound(err)
}

// ListByUser returns every donation of a user, newest donation date first.
func (r *DonationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.DonationView, error) {
	const q = "SELECT " + donationColumns + `, bb.name AS blood_bank_name
	           FROM donation_history d
	           JOIN blood_banks bb ON bb.id = d.blood_bank_id
	           WHERE d.user_id = ?
	           ORDER BY d.donation_date DESC, d.id DESC`
	out := []model.DonationView{}
	if err := r.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a donation from 'from' to 'to'.  A nil notes keeps the
// stored notes.  ErrStatusMismatch means the row exists but is no longer in
// 'from'; ErrNotFound means it is gone.
func (r *DonationRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.DonationStatus, notes *string) error {
	const q = `UPDATE donation_history SET status = ?, notes = COALESCE(?, notes)
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, notes, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	return r.missOrMismatch(ctx, id)
}

// Delete removes the donation only while its status is one of allowed.
func (r *DonationRepo) Delete(ctx context.Context, id uint64, allowed []model.DonationStatus) error {
	q, args, err := sqlx.In("DELETE FROM donation_history WHERE id = ? AND status IN (?)", id, allowed)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	return r.missOrMismatch(ctx, id)
}

func (r *DonationRepo) missOrMismatch(ctx context.Context, id uint64) error {
	var one int
	err := r.db.GetContext(ctx, &one, "SELECT 1 FROM donation_history WHERE id = ?", id)
	if err != nil {
		return notFound(err)
	}
	return ErrStatusMismatch
}
