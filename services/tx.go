package services

import (
	"context"
	"database/sql"

	"github.com/Dosada05/arenarium/repositories"
)

// Transactor выполняет fn в одной транзакции БД.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTransactor struct {
	db *sql.DB
}

func NewSQLTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return repositories.RunInTx(ctx, t.db, func(tx *sql.Tx) error {
		return fn(tx)
	})
}
