package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
)

// postgres error codes of interest
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// executor picks the caller-provided executor (a transaction, usually) over
// the repository's own connection.
func executor(db core.DBExecutor, exec []core.DBExecutor) core.DBExecutor {
	if len(exec) > 0 && exec[0] != nil {
		return exec[0]
	}
	return db
}

// trapErr translates driver errors into the application's error kinds.
func trapErr(err error, resource string) error {
	if err == nil {
		return nil
	}
	cause := errors.Cause(err)
	if cause == sql.ErrNoRows {
		return core.NewNotFoundError(resource)
	}
	if pqErr, ok := cause.(*pq.Error); ok {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return core.NewDuplicateKeyError(resource)
		case pqForeignKeyViolation:
			return core.NewReferentialError(resource)
		}
	}
	return err
}
