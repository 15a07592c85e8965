package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// WithTx runs fn inside a single transaction. The transaction rides on the
// context handed to fn, so every repository call made with that context
// joins it. A nested WithTx reuses the outer transaction.
//
// fn returning an error (or panicking) rolls the transaction back.
func (db *Database) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction carried by ctx, or the pool when there is none.
func (db *Database) Conn(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// InTx reports whether ctx carries a transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(pgx.Tx)
	return ok
}
