package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// IsUniqueConstraintError reports whether err is a UNIQUE or PRIMARY KEY
// constraint violation. The customer store relies on this to turn a
// colliding identity insert into a duplicate error instead of a storage
// fault; the extended code is checked because the base code only says
// "constraint" without saying which one.
func IsUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return true
	}
	return false
}
