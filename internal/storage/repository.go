// Package storage is the SQLite data-access layer: parameterized
// statements behind a small repository type, plus the aggregate queries
// the summary views are built on.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the SQLite database at dbPath
// and brings its schema up to date.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// EnsureCategory returns the id of the category named name, inserting it
// on first reference. A uniqueness conflict on the insert means another
// writer got there first, so the lookup is retried instead of failing.
func (r *Repository) EnsureCategory(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, core.ErrEmptyCategory
	}

	id, err := r.lookupCategory(ctx, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup category: %w", err)
	}

	res, insErr := r.db.ExecContext(ctx, "INSERT INTO categories(name) VALUES (?)", name)
	if insErr != nil {
		// Likely the unique constraint; re-check before giving up.
		if id, err := r.lookupCategory(ctx, name); err == nil {
			return id, nil
		}
		return 0, fmt.Errorf("insert category: %w", insErr)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "category created", "id", id, "name", name)
	return id, nil
}

func (r *Repository) lookupCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	return id, err
}

// CreateTransactionParams carries the boundary values for a new
// transaction. Category and Notes may be empty/nil; Currency defaults to
// core.DefaultCurrency.
type CreateTransactionParams struct {
	Type     string
	Category string
	Amount   string
	Date     string
	Notes    *string
	Currency string
}

// CreateTransaction validates params, resolves the category when one is
// named, and inserts a single row, returning its id.
func (r *Repository) CreateTransaction(ctx context.Context, userID int64, p CreateTransactionParams) (int64, error) {
	txType, err := core.ParseType(p.Type)
	if err != nil {
		return 0, err
	}
	cents, err := core.ParseAmount(p.Amount)
	if err != nil {
		return 0, err
	}
	if err := core.ValidateDate(p.Date); err != nil {
		return 0, err
	}

	var categoryID *int64
	if p.Category != "" {
		id, err := r.EnsureCategory(ctx, p.Category)
		if err != nil {
			return 0, err
		}
		categoryID = &id
	}

	currency := p.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions(user_id, category_id, type, amount_cents, currency, date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, categoryID, txType, cents, currency, p.Date, p.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "transaction created",
		"id", id,
		"user_id", userID,
		"type", txType,
		"amount_cents", cents,
		"date", p.Date)

	return id, nil
}

const transactionColumns = `
	t.id, t.user_id, t.category_id, t.type, t.amount_cents, t.currency, t.date, t.notes,
	c.name AS category_name`

func scanTransactionRow(s interface{ Scan(...any) error }) (core.TransactionRow, error) {
	var row core.TransactionRow
	err := s.Scan(
		&row.ID, &row.UserID, &row.CategoryID, &row.Type, &row.AmountCents,
		&row.Currency, &row.Date, &row.Notes, &row.CategoryName)
	return row, err
}

// GetTransaction returns a single transaction with its category name, or
// core.ErrNotFound when id does not exist.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (*core.TransactionRow, error) {
	row, err := scanTransactionRow(r.db.QueryRowContext(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &row, nil
}

// ListTransactions returns the transactions matching f, newest date first
// with newest id breaking same-day ties.
func (r *Repository) ListTransactions(ctx context.Context, f ListFilter) ([]core.TransactionRow, error) {
	where, args := f.where()
	args = append(args, f.limit(), f.Offset)

	rows, err := r.db.QueryContext(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE `+where+`
		ORDER BY t.date DESC, t.id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionRow
	for rows.Next() {
		row, err := scanTransactionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// TransactionUpdate names the fields an update may change. Nil means
// "leave unchanged". An empty Category clears the reference instead of
// resolving a category.
type TransactionUpdate struct {
	Type     *string
	Category *string
	Amount   *string
	Date     *string
	Notes    *string
	Currency *string
}

// UpdateTransaction applies the supplied fields to one transaction and
// reports the number of rows affected. With nothing supplied it performs
// no write and returns 0.
func (r *Repository) UpdateTransaction(ctx context.Context, id int64, u TransactionUpdate) (int64, error) {
	var sets []string
	var args []any

	if u.Type != nil {
		txType, err := core.ParseType(*u.Type)
		if err != nil {
			return 0, err
		}
		sets = append(sets, "type = ?")
		args = append(args, txType)
	}
	if u.Category != nil {
		var categoryID *int64
		if *u.Category != "" {
			cid, err := r.EnsureCategory(ctx, *u.Category)
			if err != nil {
				return 0, err
			}
			categoryID = &cid
		}
		sets = append(sets, "category_id = ?")
		args = append(args, categoryID)
	}
	if u.Amount != nil {
		cents, err := core.ParseAmount(*u.Amount)
		if err != nil {
			return 0, err
		}
		sets = append(sets, "amount_cents = ?")
		args = append(args, cents)
	}
	if u.Date != nil {
		if err := core.ValidateDate(*u.Date); err != nil {
			return 0, err
		}
		sets = append(sets, "date = ?")
		args = append(args, *u.Date)
	}
	if u.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *u.Notes)
	}
	if u.Currency != nil && *u.Currency != "" {
		sets = append(sets, "currency = ?")
		args = append(args, *u.Currency)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	query := "UPDATE transactions SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update rows affected: %w", err)
	}

	slog.InfoContext(ctx, "transaction updated", "id", id, "fields", len(sets), "affected", affected)
	return affected, nil
}

// DeleteTransaction removes one transaction by id and reports how many
// rows were affected (0 when id does not exist).
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete rows affected: %w", err)
	}

	slog.InfoContext(ctx, "transaction deleted", "id", id, "affected", affected)
	return affected, nil
}

// MonthRange returns the inclusive date bounds for a calendar month. The
// upper bound is a fixed day 31: ISO dates compare lexicographically and
// no month has more than 31 days, so this selects exactly the month.
func MonthRange(year, month int) (string, string) {
	return fmt.Sprintf("%04d-%02d-01", year, month), fmt.Sprintf("%04d-%02d-31", year, month)
}

// MonthlyTotals sums income and expense for one user and month. Types
// with no matching rows come back as "0.00".
func (r *Repository) MonthlyTotals(ctx context.Context, userID int64, year, month int) (core.MonthTotals, error) {
	start, end := MonthRange(year, month)

	rows, err := r.db.QueryContext(ctx, `
		SELECT type, SUM(amount_cents)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		GROUP BY type`, userID, start, end)
	if err != nil {
		return core.MonthTotals{}, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	totals := core.MonthTotals{Income: "0.00", Expense: "0.00"}
	for rows.Next() {
		var txType string
		var cents sql.NullInt64
		if err := rows.Scan(&txType, &cents); err != nil {
			return core.MonthTotals{}, fmt.Errorf("scan monthly totals: %w", err)
		}
		switch core.TxType(txType) {
		case core.TypeIncome:
			totals.Income = core.FormatAmount(cents.Int64)
		case core.TypeExpense:
			totals.Expense = core.FormatAmount(cents.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return core.MonthTotals{}, fmt.Errorf("monthly totals: %w", err)
	}
	return totals, nil
}

// CategoryBreakdown sums expenses by category over an inclusive date
// range, largest total first. Rows without a category are reported under
// core.UncategorizedLabel and sort last regardless of their sum.
func (r *Repository) CategoryBreakdown(ctx context.Context, userID int64, startDate, endDate string) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, SUM(t.amount_cents) AS total_cents
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.date >= ? AND t.date <= ? AND t.type = 'expense'
		GROUP BY c.name
		ORDER BY c.name IS NULL ASC, total_cents DESC`,
		userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var name sql.NullString
		var cents sql.NullInt64
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("scan category breakdown: %w", err)
		}
		label := core.UncategorizedLabel
		if name.Valid {
			label = name.String
		}
		out = append(out, core.CategoryTotal{Name: label, Cents: cents.Int64})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	return out, nil
}

// DailyExpenseTotals sums expenses per day for one user and month,
// ascending by date. Days with no expenses are absent.
func (r *Repository) DailyExpenseTotals(ctx context.Context, userID int64, year, month int) ([]core.DailyTotal, error) {
	start, end := MonthRange(year, month)

	rows, err := r.db.QueryContext(ctx, `
		SELECT date, SUM(amount_cents)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ? AND type = 'expense'
		GROUP BY date
		ORDER BY date ASC`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily expense totals: %w", err)
	}
	defer rows.Close()

	var out []core.DailyTotal
	for rows.Next() {
		var d core.DailyTotal
		if err := rows.Scan(&d.Date, &d.Cents); err != nil {
			return nil, fmt.Errorf("scan daily totals: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily expense totals: %w", err)
	}
	return out, nil
}
