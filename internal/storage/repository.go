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
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"calico/internal/core"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

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
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStoreUnavailable, err)
	}

	// Run migrations
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

// Transactions returns every transaction owned by the user, newest first by
// creation time.
func (r *SQLiteRepository) Transactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, vendor, description, amount_cents, date, created_at, kind, category_id
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// GetTransaction fetches a single transaction scoped to the user.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, vendor, description, amount_cents, date, created_at, kind, category_id
		FROM transactions
		WHERE user_id = ? AND id = ?`, userID, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, vendor, description, amount_cents, date, created_at, kind, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Vendor, t.Description, t.Total.Cents,
		formatTime(t.Date), formatTime(t.CreatedAt), string(t.Kind), t.CategoryID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"user_id", t.UserID,
		"vendor", t.Vendor,
		"amount_cents", t.Total.Cents,
		"kind", string(t.Kind))

	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET vendor = ?, description = ?, amount_cents = ?, date = ?, kind = ?, category_id = ?
		WHERE user_id = ? AND id = ?`,
		t.Vendor, t.Description, t.Total.Cents, formatTime(t.Date),
		string(t.Kind), t.CategoryID, t.UserID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return nil
}

// Categories returns every category owned by the user.
func (r *SQLiteRepository) Categories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, emoji
		FROM categories
		WHERE user_id = ?
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// EnsureCategory finds a category by name (case-insensitive) or creates it.
func (r *SQLiteRepository) EnsureCategory(ctx context.Context, userID, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyName
	}

	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, emoji
		FROM categories
		WHERE user_id = ? AND LOWER(name) = LOWER(?)`, userID, name).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("lookup category: %w", err)
	}

	c = core.Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, emoji)
		VALUES (?, ?, ?, ?)`, c.ID, c.UserID, c.Name, c.Emoji); err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", c.ID, "user_id", userID, "name", c.Name)
	return c, nil
}

// Budgets returns every budget owned by the user.
func (r *SQLiteRepository) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, amount_cents, created_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var (
			b         core.Budget
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Amount.Cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse budget created_at: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// BudgetCategoryLinks returns the budget-to-category join rows for every
// budget owned by the user.
func (r *SQLiteRepository) BudgetCategoryLinks(ctx context.Context, userID string) ([]core.BudgetCategoryLink, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bc.budget_id, bc.category_id
		FROM budget_categories bc
		JOIN budgets b ON b.id = bc.budget_id
		WHERE b.user_id = ?
		ORDER BY bc.budget_id, bc.category_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query budget categories: %w", err)
	}
	defer rows.Close()

	var links []core.BudgetCategoryLink
	for rows.Next() {
		var l core.BudgetCategoryLink
		if err := rows.Scan(&l.BudgetID, &l.CategoryID); err != nil {
			return nil, fmt.Errorf("scan budget category: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget categories: %w", err)
	}
	return links, nil
}

// InsertBudget stores a budget together with its category links in one
// transaction.
func (r *SQLiteRepository) InsertBudget(ctx context.Context, b core.Budget, categoryIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin budget insert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, title, amount_cents, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Title, b.Amount.Cents, formatTime(b.CreatedAt)); err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}

	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO budget_categories (budget_id, category_id)
			VALUES (?, ?)`, b.ID, categoryID); err != nil {
			return fmt.Errorf("insert budget category link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit budget insert: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID,
		"user_id", b.UserID,
		"title", b.Title,
		"amount_cents", b.Amount.Cents,
		"categories", len(categoryIDs))

	return nil
}

// Settings returns the user's settings, falling back to defaults when none
// are stored yet.
func (r *SQLiteRepository) Settings(ctx context.Context, userID string) (core.UserSettings, error) {
	s := core.UserSettings{UserID: userID, Theme: core.DefaultTheme}
	err := r.db.QueryRowContext(ctx,
		`SELECT theme FROM user_settings WHERE user_id = ?`, userID).Scan(&s.Theme)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("query settings: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.UserSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, theme) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET theme = excluded.theme`,
		s.UserID, s.Theme)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t               core.Transaction
		date, createdAt string
		kind            string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Vendor, &t.Description, &t.Total.Cents,
		&date, &createdAt, &kind, &t.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return t, err
	}
	if err != nil {
		return t, fmt.Errorf("scan transaction: %w", err)
	}
	t.Kind = core.Kind(kind)
	if t.Date, err = parseTime(date); err != nil {
		return t, fmt.Errorf("parse transaction date: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return t, fmt.Errorf("parse transaction created_at: %w", err)
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
