package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/donordarah/donor-darah-api/internal/model"
)

const bloodBankColumns = "id, name, address, phone, latitude, longitude, created_at"

// BloodBankRepo reads the blood bank directory and stock levels.  Stock is
// maintained by a separate process; this repository never writes it.
type BloodBankRepo struct {
	db *sqlx.DB
}

func NewBloodBankRepo(db *sqlx.DB) *BloodBankRepo {
	return &BloodBankRepo{db: db}
}

// List returns every blood bank in primary-key order.
func (r *BloodBankRepo) List(ctx context.Context) ([]model.BloodBank, error) {
	var out []model.BloodBank
	if err := r.db.SelectContext(ctx, &out, "SELECT "+bloodBankColumns+" FROM blood_banks ORDER BY id"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns ErrNotFound when the bank does not exist.
func (r *BloodBankRepo) GetByID(ctx context.Context, id uint64) (model.BloodBank, error) {
	var b model.BloodBank
	err := r.db.GetContext(ctx, &b, "SELECT "+bloodBankColumns+" FROM blood_banks WHERE id = ?", id)
	return b, notFound(err)
}

// Stock returns the stock rows of one bank ordered by blood type.  An
// unknown bank yields an empty slice, not an error.
func (r *BloodBankRepo) Stock(ctx context.Context, bankID uint64) ([]model.BloodStock, error) {
	const q = `SELECT blood_bank_id, blood_type, quantity, updated_at
	           FROM blood_stock WHERE blood_bank_id = ? ORDER BY blood_type`
	var out []model.BloodStock
	if err := r.db.SelectContext(ctx, &out, q, bankID); err != nil {
		return nil, err
	}
	return out, nil
}
