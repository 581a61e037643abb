// Package repository holds the MySQL data access for every entity.  The
// sentinel values below let handlers tell storage outcomes apart without
// inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist or is not
// visible to the caller.  Handlers translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update hits a unique key.
var ErrDuplicate = errors.New("duplicate entry")

// ErrInvalidReference is returned when a foreign key points at nothing.
var ErrInvalidReference = errors.New("referenced row does not exist")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrRoomUnavailable is returned when a stay would overlap another active
// reservation of the same room, or the room is withdrawn from sale.
var ErrRoomUnavailable = errors.New("room is not available for the selected dates")

const (
	mysqlDuplicateEntry = 1062
	mysqlNoReferenced   = 1452
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// translate maps driver errors onto the sentinels above.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return ErrDuplicate
		case mysqlNoReferenced:
			return ErrInvalidReference
		}
	}
	return err
}

// affected turns a zero-row UPDATE/DELETE into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertedID(res sql.Result, err error) (uint64, error) {
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
