package sheets

import (
	"context"

	"contas/internal/core"
)

// TransactionMirror is the outbound port for keeping an external
// spreadsheet copy of the ledger in sync.
type TransactionMirror interface {
	// Upsert writes or rewrites the row for a transaction, returning a
	// reference to the written range.
	Upsert(ctx context.Context, t core.Transaction) (rowRef string, err error)

	// Remove clears the row of a deleted transaction. Removing an id
	// that was never mirrored is not an error.
	Remove(ctx context.Context, id string) error
}
