package ledger

import (
	"sort"

	"calico/internal/core"
)

// TrendRow is one (month, category) point of the month-over-month series.
type TrendRow struct {
	Month    string // YYYY-MM
	Category string
	Spent    core.Money
	Budget   core.Money
}

// MonthlyTrends walks the user's entire transaction history and produces one
// row per distinct (month, category name) pair that has either spending or a
// budget allocation.
//
// Spending buckets by the month a transaction was recorded (CreatedAt), not
// the transaction date. Budgets are not month-scoped in storage, so each
// budget's amount fans out to every month observed in the history for its
// linked categories.
func MonthlyTrends(
	txs []core.Transaction,
	budgets []core.Budget,
	links []core.BudgetCategoryLink,
	resolver CategoryResolver,
) []TrendRow {
	type cell struct{ spent, budget int64 }
	months := make(map[string]map[string]*cell)

	at := func(month, category string) *cell {
		byCat := months[month]
		if byCat == nil {
			byCat = make(map[string]*cell)
			months[month] = byCat
		}
		c := byCat[category]
		if c == nil {
			c = &cell{}
			byCat[category] = c
		}
		return c
	}

	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		at(MonthKey(tx.CreatedAt), resolver.Name(tx.CategoryID)).spent += tx.Total.Cents
	}

	amounts := make(map[string]int64, len(budgets))
	for _, b := range budgets {
		amounts[b.ID] = b.Amount.Cents
	}
	for _, l := range links {
		amount, ok := amounts[l.BudgetID]
		if !ok {
			continue
		}
		name := resolver.Name(l.CategoryID)
		for month := range months {
			at(month, name).budget += amount
		}
	}

	var rows []TrendRow
	for month, byCat := range months {
		for category, c := range byCat {
			rows = append(rows, TrendRow{
				Month:    month,
				Category: category,
				Spent:    core.Money{Cents: c.spent},
				Budget:   core.Money{Cents: c.budget},
			})
		}
	}
	// The contract only promises one row per combination; sorting keeps the
	// output deterministic for consumers and tests.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
