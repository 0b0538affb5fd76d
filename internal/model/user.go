package model

import "time"

// User represents a registered donor as stored in the `users`
// table. The password hash never leaves the process: it is tagged
// out of JSON so handlers can return the struct directly.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name.
//	Email        – unique login address, immutable after registration.
//	PasswordHash – bcrypt hash of the password.
//	Phone        – contact number.
//	BloodType    – one of the eight ABO/Rh types.
//	Address      – free-form postal address.
//	CreatedAt    – timestamp of registration.
type User struct {
	ID           uint64    `db:"id" json:"id"`                 // users.id
	Name         string    `db:"name" json:"name"`             // users.name
	Email        string    `db:"email" json:"email"`           // users.email
	PasswordHash string    `db:"password" json:"-"`            // users.password
	Phone        string    `db:"phone" json:"phone"`           // users.phone
	BloodType    string    `db:"blood_type" json:"blood_type"` // users.blood_type
	Address      string    `db:"address" json:"address"`       // users.address
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // users.created_at
}

// UserStats summarises a donor's completed donations.
type UserStats struct {
	TotalDonations    int   `json:"total_donations"`
	TotalBloodDonated int   `json:"total_blood_donated"` // millilitres
	LastDonation      *Date `json:"last_donation"`
}
