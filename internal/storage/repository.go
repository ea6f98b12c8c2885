package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"contas/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the production persistence backend.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, kind, amount_cents, description, category,
	transaction_date, due_date, is_paid, recurrence, created_at`

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return t, err
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Kind), t.Amount.Cents, t.Description, t.Category,
		dayValue(t.Date), dayValue(t.DueDate), boolValue(t.IsPaid),
		string(t.Recurrence), t.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET kind = ?, amount_cents = ?, description = ?, category = ?,
		     transaction_date = ?, due_date = ?, is_paid = ?, recurrence = ?
		 WHERE id = ?`,
		string(t.Kind), t.Amount.Cents, t.Description, t.Category,
		dayValue(t.Date), dayValue(t.DueDate), boolValue(t.IsPaid),
		string(t.Recurrence), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction", t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "transaction", id)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline, created_at
		 FROM savings_goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		contributions, err := r.listContributions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Contributions = contributions
	}
	return out, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline, created_at
		 FROM savings_goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.SavingsGoal{}, err
	}
	g.Contributions, err = r.listContributions(ctx, id)
	return g, err
}

func (r *SQLiteRepository) SaveGoal(ctx context.Context, g core.SavingsGoal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save goal: %w", err)
	}
	defer tx.Rollback()

	if err := saveGoalTx(ctx, tx, g); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, "goal", id)
}

func (r *SQLiteRepository) ListShoppingItems(ctx context.Context) ([]core.ShoppingItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, quantity, purchased, created_at
		 FROM shopping_items ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var out []core.ShoppingItem
	for rows.Next() {
		var (
			item      core.ShoppingItem
			purchased int64
			createdAt string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &purchased, &createdAt); err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		item.Purchased = purchased != 0
		item.CreatedAt = parseCreatedAt(createdAt)
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateShoppingItem(ctx context.Context, i core.ShoppingItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_items (id, name, quantity, purchased, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		i.ID, i.Name, i.Quantity, boolValue(i.Purchased), i.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create shopping item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateShoppingItem(ctx context.Context, i core.ShoppingItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shopping_items SET name = ?, quantity = ?, purchased = ? WHERE id = ?`,
		i.Name, i.Quantity, boolValue(i.Purchased), i.ID)
	if err != nil {
		return fmt.Errorf("update shopping item: %w", err)
	}
	return requireRow(res, "shopping item", i.ID)
}

func (r *SQLiteRepository) DeleteShoppingItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return requireRow(res, "shopping item", id)
}

// ReplaceAll swaps the whole ledger for an imported bundle inside one
// transaction. Shopping items are not part of the bundle and survive.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, transactions []core.Transaction, goals []core.SavingsGoal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"savings_contributions", "savings_goals", "transactions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, t := range transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (`+transactionColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, string(t.Kind), t.Amount.Cents, t.Description, t.Category,
			dayValue(t.Date), dayValue(t.DueDate), boolValue(t.IsPaid),
			string(t.Recurrence), t.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("import transaction %s: %w", t.ID, err)
		}
	}
	for _, g := range goals {
		if err := saveGoalTx(ctx, tx, g); err != nil {
			return fmt.Errorf("import goal %s: %w", g.ID, err)
		}
	}
	return tx.Commit()
}

func saveGoalTx(ctx context.Context, tx *sql.Tx, g core.SavingsGoal) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO savings_goals (id, name, target_cents, current_cents, deadline, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE
		 SET name = excluded.name, target_cents = excluded.target_cents,
		     current_cents = excluded.current_cents, deadline = excluded.deadline`,
		g.ID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		dayValue(g.Deadline), g.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM savings_contributions WHERE goal_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clear contributions: %w", err)
	}
	for _, c := range g.Contributions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO savings_contributions (id, goal_id, amount_cents, contribution_date, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			c.ID, g.ID, c.Amount.Cents, dayValue(c.Date),
			c.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert contribution %s: %w", c.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) listContributions(ctx context.Context, goalID string) ([]core.SavingsContribution, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, contribution_date, created_at
		 FROM savings_contributions WHERE goal_id = ?
		 ORDER BY contribution_date, id`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	contributions := []core.SavingsContribution{}
	for rows.Next() {
		var (
			c         core.SavingsContribution
			day       string
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Amount.Cents, &day, &createdAt); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		if c.Date, err = core.ParseDay(day); err != nil {
			return nil, fmt.Errorf("contribution %s: %w", c.ID, err)
		}
		c.CreatedAt = parseCreatedAt(createdAt)
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// requireRow maps a zero-row mutation to ErrNotFound.
func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, core.ErrNotFound)
	}
	return nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		kind       string
		day        string
		due        sql.NullString
		paid       int64
		recurrence string
		createdAt  string
	)
	err := row.Scan(&t.ID, &kind, &t.Amount.Cents, &t.Description, &t.Category,
		&day, &due, &paid, &recurrence, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.TransactionKind(kind)
	t.Recurrence = core.Recurrence(recurrence)
	t.IsPaid = paid != 0
	if t.Date, err = core.ParseDay(day); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	if due.Valid && due.String != "" {
		if t.DueDate, err = core.ParseDay(due.String); err != nil {
			return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
	}
	t.CreatedAt = parseCreatedAt(createdAt)
	return t, nil
}

func scanGoal(row rowScanner) (core.SavingsGoal, error) {
	var (
		g         core.SavingsGoal
		deadline  sql.NullString
		createdAt string
	)
	err := row.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&deadline, &createdAt)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	if deadline.Valid && deadline.String != "" {
		if g.Deadline, err = core.ParseDay(deadline.String); err != nil {
			return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", g.ID, err)
		}
	}
	g.CreatedAt = parseCreatedAt(createdAt)
	return g, nil
}

// dayValue renders an optional calendar day for storage; absent days map
// to NULL.
func dayValue(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.String()
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
