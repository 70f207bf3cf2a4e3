package ledger

import (
	"sort"

	"calico/internal/core"
)

const (
	// TopCategoryLimit caps "top spending categories" views.
	TopCategoryLimit = 10
	// RecentTransactionLimit caps "recent transactions" views.
	RecentTransactionLimit = 5
)

// CategorySpend is one entry of a spending ranking.
type CategorySpend struct {
	CategoryID string
	Label      string
	Spent      core.Money
}

// DailyPoint is one day of a spending time series.
type DailyPoint struct {
	Date  string // YYYY-MM-DD
	Spent core.Money
}

// SumByCategory groups transactions of the given kind by category ID and sums
// their totals in cents. Every matching transaction lands in exactly one
// bucket, so the per-bucket sums always add up to the filtered grand total.
func SumByCategory(txs []core.Transaction, kind core.Kind) map[string]int64 {
	sums := make(map[string]int64)
	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		sums[tx.CategoryID] += tx.Total.Cents
	}
	return sums
}

// TopSpendingCategories ranks expense spending by category, highest first,
// capped at TopCategoryLimit. Ties keep the order categories were first seen
// in the input (stable sort).
func TopSpendingCategories(txs []core.Transaction, resolver CategoryResolver) []CategorySpend {
	var order []string
	sums := make(map[string]int64)
	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		if _, seen := sums[tx.CategoryID]; !seen {
			order = append(order, tx.CategoryID)
		}
		sums[tx.CategoryID] += tx.Total.Cents
	}

	ranked := make([]CategorySpend, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, CategorySpend{
			CategoryID: id,
			Label:      resolver.Label(id),
			Spent:      core.Money{Cents: sums[id]},
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Spent.Cents > ranked[j].Spent.Cents
	})
	if len(ranked) > TopCategoryLimit {
		ranked = ranked[:TopCategoryLimit]
	}
	return ranked
}

// RecentTransactions returns the newest transactions by creation time,
// capped at RecentTransactionLimit. The input slice is left untouched.
func RecentTransactions(txs []core.Transaction) []core.Transaction {
	recent := make([]core.Transaction, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > RecentTransactionLimit {
		recent = recent[:RecentTransactionLimit]
	}
	return recent
}

// DailySpending buckets expense transactions by calendar day within the
// period and returns the series in chronological order.
func DailySpending(txs []core.Transaction, p Period) []DailyPoint {
	sums := make(map[string]int64)
	for _, tx := range txs {
		if tx.Kind != core.Expense || !p.Contains(tx.Date) {
			continue
		}
		sums[DayKey(tx.Date)] += tx.Total.Cents
	}

	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		series = append(series, DailyPoint{Date: day, Spent: core.Money{Cents: sums[day]}})
	}
	return series
}

// CumulativeSpending is DailySpending with a running total: a monotonically
// non-decreasing series for "spending over time" charts.
func CumulativeSpending(txs []core.Transaction, p Period) []DailyPoint {
	series := DailySpending(txs, p)
	var running int64
	for i := range series {
		running += series[i].Spent.Cents
		series[i].Spent = core.Money{Cents: running}
	}
	return series
}

// CashFlow sums transaction totals by kind.
func CashFlow(txs []core.Transaction) (income, expenses core.Money) {
	for _, tx := range txs {
		switch tx.Kind {
		case core.Income:
			income.Cents += tx.Total.Cents
		case core.Expense:
			expenses.Cents += tx.Total.Cents
		}
	}
	return income, expenses
}
