// Package repokit is the driver free surface repos are written against
package repokit

import (
	"context"

	"postcraft/internal/platform/store"
)

type (
	// Queryer runs statements, inside or outside a transaction
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can also open transactions
	TxRunner = store.TxRunner

	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// WithTx runs fn in one transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
