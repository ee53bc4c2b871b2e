package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const pqCodeCheckViolation = "23514"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isCheckViolation(err error) bool {
	return pqCode(err) == pqCodeCheckViolation
}
