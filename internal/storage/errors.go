package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ms-eventplatform/internal/apperr"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrConstraintViolation is wrapped by every Conflict the storage layer produces.
var ErrConstraintViolation = errors.New("constraint violation")

var (
	sqliteUniqueColumn = regexp.MustCompile(`UNIQUE constraint failed: [\w"]+\.(\w+)`)
	mysqlUniqueKey     = regexp.MustCompile(`for key '(?:\w+\.)?(\w+)'`)
)

// uniqueViolation reports whether err is a unique-key violation from any supported
// driver, plus the offending column when the driver exposes it.
func uniqueViolation(err error) (bool, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" {
			return true, pqColumn(pqErr)
		}
		return false, ""
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number == 1062 {
			column := ""
			if m := mysqlUniqueKey.FindStringSubmatch(myErr.Message); m != nil {
				column = m[1]
			}
			return true, column
		}
		return false, ""
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if m := sqliteUniqueColumn.FindStringSubmatch(msg); m != nil {
			return true, m[1]
		}
		return true, ""
	}
	return false, ""
}

// pqColumn pulls the column out of Postgres' default "<table>_<column>_key" naming.
func pqColumn(e *pq.Error) string {
	if e.Column != "" {
		return e.Column
	}
	name := strings.TrimPrefix(e.Constraint, e.Table+"_")
	return strings.TrimSuffix(name, "_key")
}

// translate maps driver errors onto the application taxonomy. Errors that already carry
// a Kind pass through unchanged.
func (t *Table[T]) translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s not found", t.resource)
	}

	if ok, column := uniqueViolation(err); ok {
		cause := fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		if column != "" {
			return apperr.Conflict(cause, "%s with this %s already exists", t.resource, column)
		}
		return apperr.Conflict(cause, "%s already exists", t.resource)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Unexpected(err, "%s %s cancelled", op, t.resource)
	}

	t.db.Logger.Error("DATABASE", fmt.Sprintf("[%s] %s - %v", strings.ToUpper(op), t.name, err))
	return apperr.Unexpected(err, "database error")
}
