// Package repository contains data access logic separated from HTTP
// handlers.  These sentinel values let the service layer distinguish
// storage outcomes without inspecting driver errors itself.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when no row matches the requested key.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a UNIQUE constraint.
// For users this is the authoritative duplicate-email signal.
var ErrDuplicate = errors.New("duplicate entry")

// ErrUnknownReference is returned when a foreign key points at a row that
// does not exist (e.g. a donation for an unknown blood bank).
var ErrUnknownReference = errors.New("referenced row does not exist")

// ErrStatusMismatch is returned by conditional writes when the row exists
// but is no longer in the state the caller based its decision on.
var ErrStatusMismatch = errors.New("row not in expected state")

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

// classify maps MySQL constraint violations onto the sentinels above and
// returns any other error unchanged.
func classify(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDuplicateEntry:
		return fmt.Errorf("%w: %s", ErrDuplicate, me.Message)
	case mysqlNoReferencedRow:
		return fmt.Errorf("%w: %s", ErrUnknownReference, me.Message)
	}
	return err
}
