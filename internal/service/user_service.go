package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/donordarah/donor-darah-api/internal/model"
	"github.com/donordarah/donor-darah-api/internal/repository"
	"github.com/donordarah/donor-darah-api/internal/utils"
)

// UserStore persists donor accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, name, phone, bloodType, address string) error
	UpdatePassword(ctx context.Context, id uint64, hash string) error
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone" validate:"required"`
	BloodType string `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address   string `json:"address" validate:"required"`
}

// ProfileInput carries the editable profile fields. Email is fixed at
// registration.
type ProfileInput struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	BloodType string `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address   string `json:"address" validate:"required"`
}

// PasswordInput is the body of a password change.
type PasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserService manages accounts and issues access tokens.
type UserService struct {
	store      UserStore
	secret     string
	tokenTTL   time.Duration
	bcryptCost int
}

func NewUserService(store UserStore, secret string, tokenTTL time.Duration, bcryptCost int) *UserService {
	return &UserService{store: store, secret: secret, tokenTTL: tokenTTL, bcryptCost: bcryptCost}
}

// Register creates an account. Duplicate emails are caught by the unique
// index, not by a lookup, so two concurrent registrations cannot both win.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.BloodType, _ = model.NormalizeBloodType(in.BloodType)
	if err := checkStruct(in); err != nil {
		return model.User{}, err
	}

	hash, err := s.hash("password", in.Password)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		BloodType:    in.BloodType,
		Address:      in.Address,
	}
	if err := s.store.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login checks credentials and returns the user with a fresh token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (model.User, utils.AccessToken, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, utils.AccessToken{}, invalid("", "email and password are required")
	}
	u, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, utils.AccessToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, utils.AccessToken{}, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, utils.AccessToken{}, ErrInvalidCredentials
	}
	tok, err := utils.NewAccessToken(s.secret, u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return model.User{}, utils.AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	return u, tok, nil
}

// Profile returns the account of id.
func (s *UserService) Profile(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// UpdateProfile overwrites the editable fields and returns the stored user.
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, in ProfileInput) (model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.BloodType, _ = model.NormalizeBloodType(in.BloodType)
	if err := checkStruct(in); err != nil {
		return model.User{}, err
	}
	err := s.store.UpdateProfile(ctx, id, in.Name, in.Phone, in.BloodType, in.Address)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	return s.Profile(ctx, id)
}

// ChangePassword replaces the password after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, id uint64, in PasswordInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	u, err := s.Profile(ctx, id)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, in.OldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := s.hash("new_password", in.NewPassword)
	if err != nil {
		return err
	}
	err = s.store.UpdatePassword(ctx, id, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// hash reports length violations as a ValidationError on field.
func (s *UserService) hash(field, plain string) (string, error) {
	h, err := utils.HashPassword(plain, s.bcryptCost)
	switch {
	case errors.Is(err, utils.ErrPasswordTooShort):
		return "", invalid(field, "must be at least 6 characters")
	case errors.Is(err, utils.ErrPasswordTooLong):
		return "", invalid(field, "must be at most 72 bytes")
	case err != nil:
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
