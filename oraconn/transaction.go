package oraconn

import (
	"context"

	"github.com/mickamy/ora-ttc/protocol"
)

// WithTransaction runs fn against conn, committing on success and rolling
// back on failure. If both the closure and the ensuing commit/rollback
// fail, all failures are aggregated into a TransactionError rather than
// discarding the closure's original error.
func WithTransaction(ctx context.Context, conn *Connection, fn func(ctx context.Context, conn *Connection) error) error {
	closureErr := fn(ctx, conn)

	if closureErr == nil {
		if commitErr := conn.Commit(ctx); commitErr != nil {
			return &protocol.TransactionError{CommitError: commitErr}
		}
		return nil
	}

	txErr := &protocol.TransactionError{ClosureError: closureErr}
	if rollbackErr := conn.Rollback(ctx); rollbackErr != nil {
		txErr.RollbackError = rollbackErr
	}
	return txErr
}
