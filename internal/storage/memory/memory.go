// Package memory is an in-memory Repository used by tests and the
// "memory" data backend. It holds deep copies so callers never share
// slices with the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"contas/internal/core"
	"contas/internal/storage"
)

type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	goals        []core.SavingsGoal
	items        []core.ShoppingItem
}

var _ storage.Repository = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Close() error { return nil }

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.transactions {
		if existing.ID == t.ID {
			return fmt.Errorf("transaction %s already exists", t.ID)
		}
	}
	s.transactions = append(s.transactions, t)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == t.ID {
			s.transactions[i] = t
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", t.ID, core.ErrNotFound)
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
}

func (s *Store) ListGoals(_ context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SavingsGoal, len(s.goals))
	for i, g := range s.goals {
		out[i] = copyGoal(g)
	}
	return out, nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return copyGoal(g), nil
		}
	}
	return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
}

func (s *Store) SaveGoal(_ context.Context, g core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := copyGoal(g)
	for i := range s.goals {
		if s.goals[i].ID == g.ID {
			s.goals[i] = stored
			return nil
		}
	}
	s.goals = append(s.goals, stored)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
}

func (s *Store) ListShoppingItems(_ context.Context) ([]core.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ShoppingItem(nil), s.items...), nil
}

func (s *Store) CreateShoppingItem(_ context.Context, i core.ShoppingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, i)
	return nil
}

func (s *Store) UpdateShoppingItem(_ context.Context, item core.ShoppingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("shopping item %s: %w", item.ID, core.ErrNotFound)
}

func (s *Store) DeleteShoppingItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("shopping item %s: %w", id, core.ErrNotFound)
}

func (s *Store) ReplaceAll(_ context.Context, transactions []core.Transaction, goals []core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]core.Transaction(nil), transactions...)
	s.goals = make([]core.SavingsGoal, len(goals))
	for i, g := range goals {
		s.goals[i] = copyGoal(g)
	}
	return nil
}

func copyGoal(g core.SavingsGoal) core.SavingsGoal {
	out := g
	out.Contributions = append([]core.SavingsContribution(nil), g.Contributions...)
	return out
}
