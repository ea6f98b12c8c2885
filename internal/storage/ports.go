package storage

import (
	"context"

	"contas/internal/core"
)

// Repository is the persistence boundary the HTTP layer and workers
// depend on. The SQLite implementation is the production backend; the
// memory implementation backs tests and the "memory" data backend.
type Repository interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) error
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
	GetGoal(ctx context.Context, id string) (core.SavingsGoal, error)
	// SaveGoal upserts the goal row and replaces its contribution rows
	// in one transaction, keeping the stored aggregate consistent with
	// the contribution list.
	SaveGoal(ctx context.Context, g core.SavingsGoal) error
	DeleteGoal(ctx context.Context, id string) error

	ListShoppingItems(ctx context.Context) ([]core.ShoppingItem, error)
	CreateShoppingItem(ctx context.Context, i core.ShoppingItem) error
	UpdateShoppingItem(ctx context.Context, i core.ShoppingItem) error
	DeleteShoppingItem(ctx context.Context, id string) error

	// ReplaceAll swaps the whole ledger for an imported bundle.
	ReplaceAll(ctx context.Context, transactions []core.Transaction, goals []core.SavingsGoal) error

	Close() error
}
