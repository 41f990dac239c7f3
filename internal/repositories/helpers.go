package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntry reports whether err is a MySQL unique-key violation.
// Uniqueness races (two concurrent inserts of the same pair) surface here
// rather than in a pre-check, so the loser always gets a deterministic error.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
