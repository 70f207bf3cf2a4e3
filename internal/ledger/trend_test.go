package ledger

import (
	"testing"
	"time"

	"calico/internal/core"
)

func TestMonthlyTrendsBudgetFanOut(t *testing.T) {
	resolver := NewCategoryResolver([]core.Category{
		{ID: "rent", Name: "Rent"},
	})
	may := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("t1", "rent", 120000, core.Expense, may),
		tx("t2", "rent", 120000, core.Expense, june),
	}
	budgets := []core.Budget{
		{ID: "b1", Title: "Housing", Amount: core.Money{Cents: 100000}},
	}
	links := []core.BudgetCategoryLink{
		{BudgetID: "b1", CategoryID: "rent"},
	}

	rows := MonthlyTrends(txs, budgets, links, resolver)

	if len(rows) != 2 {
		t.Fatalf("len = %d, want one row per (month, category)", len(rows))
	}
	for _, row := range rows {
		if row.Category != "Rent" {
			t.Fatalf("category = %q", row.Category)
		}
		if row.Budget.Cents != 100000 {
			t.Fatalf("month %s budget = %d, the budget amount fans out to every month", row.Month, row.Budget.Cents)
		}
		if row.Spent.Cents != 120000 {
			t.Fatalf("month %s spent = %d", row.Month, row.Spent.Cents)
		}
	}
	if rows[0].Month != "2025-05" || rows[1].Month != "2025-06" {
		t.Fatalf("months = %s, %s", rows[0].Month, rows[1].Month)
	}
}

func TestMonthlyTrendsBucketsByCreatedAt(t *testing.T) {
	// Spending buckets by the month the record was created, not the
	// transaction date.
	x := tx("t1", "c", 5000, core.Expense, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC))
	x.CreatedAt = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	rows := MonthlyTrends([]core.Transaction{x}, nil, nil, NewCategoryResolver(nil))

	if len(rows) != 1 || rows[0].Month != "2025-06" {
		t.Fatalf("rows = %+v, want a single 2025-06 row", rows)
	}
	if rows[0].Category != core.UncategorizedName {
		t.Fatalf("category = %q, want sentinel", rows[0].Category)
	}
}

func TestMonthlyTrendsNoDuplicates(t *testing.T) {
	june := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("t1", "a", 100, core.Expense, june),
		tx("t2", "a", 200, core.Expense, june),
		tx("t3", "b", 300, core.Expense, june),
		tx("t4", "b", 400, core.Income, june), // ignored
	}

	rows := MonthlyTrends(txs, nil, nil, NewCategoryResolver([]core.Category{
		{ID: "a", Name: "A"}, {ID: "b", Name: "B"},
	}))

	seen := make(map[string]bool)
	for _, row := range rows {
		key := row.Month + "/" + row.Category
		if seen[key] {
			t.Fatalf("duplicate row for %s", key)
		}
		seen[key] = true
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Spent.Cents != 300 {
		t.Fatalf("A spent = %d, want 300", rows[0].Spent.Cents)
	}
}

func TestMonthlyTrendsBudgetForQuietCategory(t *testing.T) {
	// A budgeted category with no spending in an observed month still gets a
	// row carrying the allocation.
	june := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{tx("t1", "dining", 900, core.Expense, june)}
	budgets := []core.Budget{{ID: "b1", Title: "Travel fund", Amount: core.Money{Cents: 30000}}}
	links := []core.BudgetCategoryLink{{BudgetID: "b1", CategoryID: "travel"}}

	rows := MonthlyTrends(txs, budgets, links, NewCategoryResolver([]core.Category{
		{ID: "dining", Name: "Dining"}, {ID: "travel", Name: "Travel"},
	}))

	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	var travel *TrendRow
	for i := range rows {
		if rows[i].Category == "Travel" {
			travel = &rows[i]
		}
	}
	if travel == nil {
		t.Fatal("missing Travel row")
	}
	if travel.Spent.Cents != 0 || travel.Budget.Cents != 30000 {
		t.Fatalf("travel row = %+v", *travel)
	}
}
