package model

import (
	"strings"
	"time"
)

// BloodBank represents a PMI office or hospital blood bank as stored in
// the `blood_banks` table. Distance is not a column: it is filled in
// (kilometres) only when the list is ranked against a user location.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – display name of the bank.
//	Address   – street address.
//	Phone     – contact number.
//	Latitude  – WGS84 latitude in degrees.
//	Longitude – WGS84 longitude in degrees.
//	CreatedAt – creation timestamp.
type BloodBank struct {
	ID        uint64    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Distance  *float64  `db:"-" json:"distance,omitempty"`
}

// BloodStock is one row of `blood_stock`: the number of bags a bank holds
// for a single blood type. The pair (BloodBankID, BloodType) is unique.
type BloodStock struct {
	BloodBankID uint64    `db:"blood_bank_id" json:"blood_bank_id"`
	BloodType   string    `db:"blood_type" json:"blood_type"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// BloodBankDetail is a bank together with its current stock.
type BloodBankDetail struct {
	BloodBank
	BloodStock []BloodStock `json:"blood_stock"`
}

// BloodTypes lists the eight ABO/Rh groups accepted by the service.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// NormalizeBloodType trims and upper-cases s and reports whether the
// result is one of BloodTypes.
func NormalizeBloodType(s string) (string, bool) {
	bt := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range BloodTypes {
		if bt == t {
			return bt, true
		}
	}
	return bt, false
}
