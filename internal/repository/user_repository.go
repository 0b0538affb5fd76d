package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/donordarah/donor-darah-api/internal/model"
)

const userColumns = "id, name, email, password, phone, blood_type, address, created_at"

// UserRepo persists donor accounts in the 'users' table.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u and populates its ID and CreatedAt.  Email uniqueness is
// left to the UNIQUE index: a violation surfaces as ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password, phone, blood_type, address) VALUES (?, ?, ?, ?, ?, ?)",
		u.Name, u.Email, u.PasswordHash, u.Phone, u.BloodType, u.Address)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = created
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return u, notFound(err)
}

// UpdateProfile overwrites the editable profile fields.  Email is not
// editable.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone, bloodType, address string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name = ?, phone = ?, blood_type = ?, address = ? WHERE id = ?",
		name, phone, bloodType, address, id)
	return affected(res, err)
}

// UpdatePassword stores a new password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password = ? WHERE id = ?", hash, id)
	return affected(res, err)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// affected turns a zero-row write into ErrNotFound.  The DSN sets
// clientFoundRows, so unchanged-but-matched rows still count.
func affected(res sql.Result, err error) error {
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
