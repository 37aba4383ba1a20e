package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Narrow query interfaces so repository methods can run against either the
// pool or an open transaction. *sqlx.DB and *sqlx.Tx satisfy all of them.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type Tx interface {
	Execer
	Getter
	Selecter
}

// TxRunner owns the transaction boundary for every multi-step engine
// operation: begin, run the closure, commit, rollback on any failure.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type sqlxTxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) TxRunner {
	return &sqlxTxRunner{db: db}
}

func (r *sqlxTxRunner) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
