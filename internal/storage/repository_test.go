package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"calico/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "calico.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := core.Transaction{
		ID:          "tx-1",
		UserID:      "user-1",
		Vendor:      "Esselunga",
		Description: "weekly shop",
		Total:       core.Money{Cents: 5550},
		Date:        time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2025, time.June, 10, 18, 30, 0, 0, time.UTC),
		Kind:        core.Expense,
		CategoryID:  "cat-1",
	}
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "user-1", "tx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Vendor != tx.Vendor || got.Total.Cents != tx.Total.Cents || got.Kind != tx.Kind {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if !got.Date.Equal(tx.Date) || !got.CreatedAt.Equal(tx.CreatedAt) {
		t.Errorf("timestamp mismatch: got date %v created %v", got.Date, got.CreatedAt)
	}

	// Other users must not see it.
	if _, err := repo.GetTransaction(ctx, "user-2", "tx-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user, got %v", err)
	}

	tx.Vendor = "Coop"
	tx.Total = core.Money{Cents: 4200}
	if err := repo.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = repo.GetTransaction(ctx, "user-1", "tx-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Vendor != "Coop" || got.Total.Cents != 4200 {
		t.Errorf("update not applied: got %+v", got)
	}

	if err := repo.DeleteTransaction(ctx, "user-1", "tx-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, "user-1", "tx-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpdateTransaction(context.Background(), core.Transaction{
		ID: "nope", UserID: "user-1", Vendor: "x", Kind: core.Expense,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.EnsureCategory(ctx, "user-1", "Groceries")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned category ID")
	}

	// Lookup is case-insensitive and must not create a duplicate.
	again, err := repo.EnsureCategory(ctx, "user-1", "groceries")
	if err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("expected same category, got %q and %q", created.ID, again.ID)
	}
	if again.Name != "Groceries" {
		t.Errorf("expected stored casing preserved, got %q", again.Name)
	}

	cats, err := repo.Categories(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("expected 1 category, got %d", len(cats))
	}

	// Same name under another user is a distinct category.
	other, err := repo.EnsureCategory(ctx, "user-2", "Groceries")
	if err != nil {
		t.Fatalf("ensure for other user: %v", err)
	}
	if other.ID == created.ID {
		t.Error("categories must be scoped per user")
	}

	if _, err := repo.EnsureCategory(ctx, "user-1", "   "); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestBudgetWithLinks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rent, err := repo.EnsureCategory(ctx, "user-1", "Rent")
	if err != nil {
		t.Fatalf("ensure rent: %v", err)
	}
	groceries, err := repo.EnsureCategory(ctx, "user-1", "Groceries")
	if err != nil {
		t.Fatalf("ensure groceries: %v", err)
	}

	b := core.Budget{
		ID:        "b1",
		UserID:    "user-1",
		Title:     "Essentials",
		Amount:    core.Money{Cents: 80000},
		CreatedAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	// Duplicate link is ignored, not an error.
	if err := repo.InsertBudget(ctx, b, []string{rent.ID, groceries.ID, rent.ID}); err != nil {
		t.Fatalf("insert budget: %v", err)
	}

	budgets, err := repo.Budgets(ctx, "user-1")
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}
	if budgets[0].Amount.Cents != 80000 {
		t.Errorf("expected 80000 cents, got %d", budgets[0].Amount.Cents)
	}

	links, err := repo.BudgetCategoryLinks(ctx, "user-1")
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 links after dedupe, got %d", len(links))
	}

	// Links follow budget ownership.
	links, err = repo.BudgetCategoryLinks(ctx, "user-2")
	if err != nil {
		t.Fatalf("list links for other user: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("expected no links for other user, got %d", len(links))
	}
}

func TestSettingsDefaultAndUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s, err := repo.Settings(ctx, "user-1")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.Theme != core.DefaultTheme {
		t.Errorf("expected default theme, got %q", s.Theme)
	}

	if err := repo.SaveSettings(ctx, core.UserSettings{UserID: "user-1", Theme: core.ThemeDark}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s, err = repo.Settings(ctx, "user-1")
	if err != nil {
		t.Fatalf("settings after save: %v", err)
	}
	if s.Theme != core.ThemeDark {
		t.Errorf("expected dark, got %q", s.Theme)
	}

	// Saving again updates in place.
	if err := repo.SaveSettings(ctx, core.UserSettings{UserID: "user-1", Theme: core.ThemeLight}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	s, _ = repo.Settings(ctx, "user-1")
	if s.Theme != core.ThemeLight {
		t.Errorf("expected light after upsert, got %q", s.Theme)
	}
}
