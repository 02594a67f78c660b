package core

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is the query surface shared by *sqlx.DB and *sqlx.Tx.
	// Repositories accept it so services can decide the transaction scope.
	DBExecutor interface {
		sqlx.ExecerContext
		sqlx.QueryerContext
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		Begin(ctx context.Context) (DBTransactor, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

// Atomic runs fn within a transaction started on db; the transaction is
// rolled back if fn errors and committed otherwise.
func Atomic(ctx context.Context, db DB, fn func(tx DBTransactor) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
