package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

// UncategorizedName is the sentinel label used whenever a category reference
// cannot be resolved.
const UncategorizedName = "Uncategorized"

// Themes a user can pick for the UI.
const (
	ThemeLight   = "light"
	ThemeDark    = "dark"
	DefaultTheme = ThemeLight
)

// ValidTheme reports whether the given theme name is one we support.
func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

type (
	// Kind is the direction of a transaction: expense or income.
	Kind string

	Money struct {
		Cents int64
	}

	// Transaction is a single money movement. Total is always non-negative;
	// direction is carried by Kind, never by a negative amount.
	Transaction struct {
		ID          string
		UserID      string
		Vendor      string
		Description string
		Total       Money
		Date        time.Time
		CreatedAt   time.Time
		Kind        Kind
		CategoryID  string // empty = uncategorized
	}

	// Category is a user-defined label for grouping transactions and budgets.
	Category struct {
		ID     string
		UserID string
		Name   string
		Emoji  string
	}

	// Budget is a planned spending limit. Its "spent" is always derived from
	// transactions whose category is linked to it, never stored.
	Budget struct {
		ID        string
		UserID    string
		Title     string
		Amount    Money
		CreatedAt time.Time
	}

	// BudgetCategoryLink is one row of the budget-category many-to-many join.
	BudgetCategoryLink struct {
		BudgetID   string
		CategoryID string
	}

	// UserSettings holds per-user preferences persisted alongside the ledger data.
	UserSettings struct {
		UserID string
		Theme  string
	}
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrEmptyVendor      = errors.New("empty vendor")
	ErrEmptyTitle       = errors.New("empty budget title")
	ErrEmptyName        = errors.New("empty category name")
)

// Validate checks kind membership.
func (k Kind) Validate() error {
	switch k {
	case Expense, Income:
		return nil
	}
	return ErrInvalidKind
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(t.Vendor) == "" {
		return ErrEmptyVendor
	}
	if len(t.Vendor) > 200 {
		return errors.New("vendor too long (max 200 characters)")
	}
	if len(t.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	if err := t.Total.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	return t.Kind.Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("category name too long (max 100 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if len(b.Title) > 200 {
		return errors.New("budget title too long (max 200 characters)")
	}
	return b.Amount.Validate()
}

// Label renders the category as "name emoji", trimmed when the emoji is absent.
func (c Category) Label() string {
	return strings.TrimSpace(c.Name + " " + c.Emoji)
}
