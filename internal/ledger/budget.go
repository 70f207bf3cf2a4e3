package ledger

import (
	"strings"

	"calico/internal/core"
)

// BudgetRow is one line of the budget-versus-spending table.
type BudgetRow struct {
	ID             string
	Title          string
	CategoryLabels string // comma-joined "name emoji" per linked category
	Budget         core.Money
	Spent          core.Money
	Remaining      core.Money
	Progress       int64 // percent of the budget already spent, rounded
}

// BudgetTable produces one summary row per budget for the given period.
//
// A budget's spent is the sum of expense transactions dated within the period
// whose category is among the budget's linked categories. A transaction counts
// toward every budget that covers its category, not exclusively one.
// Remaining never goes negative; overspend surfaces through Progress > 100.
func BudgetTable(
	budgets []core.Budget,
	links []core.BudgetCategoryLink,
	resolver CategoryResolver,
	txs []core.Transaction,
	p Period,
) []BudgetRow {
	// Linked categories per budget, in link-discovery order, deduplicated.
	linked := make(map[string][]string, len(budgets))
	member := make(map[string]map[string]bool, len(budgets))
	for _, l := range links {
		if l.CategoryID == "" {
			continue
		}
		if member[l.BudgetID] == nil {
			member[l.BudgetID] = make(map[string]bool)
		}
		if member[l.BudgetID][l.CategoryID] {
			continue
		}
		member[l.BudgetID][l.CategoryID] = true
		linked[l.BudgetID] = append(linked[l.BudgetID], l.CategoryID)
	}

	spentPerCategory := make(map[string]int64)
	for _, tx := range txs {
		if tx.Kind != core.Expense || !p.Contains(tx.Date) {
			continue
		}
		spentPerCategory[tx.CategoryID] += tx.Total.Cents
	}

	rows := make([]BudgetRow, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		labels := make([]string, 0, len(linked[b.ID]))
		for _, catID := range linked[b.ID] {
			spent += spentPerCategory[catID]
			labels = append(labels, resolver.Label(catID))
		}

		remaining := b.Amount.Cents - spent
		if remaining < 0 {
			remaining = 0
		}
		rows = append(rows, BudgetRow{
			ID:             b.ID,
			Title:          b.Title,
			CategoryLabels: strings.Join(labels, ", "),
			Budget:         b.Amount,
			Spent:          core.Money{Cents: spent},
			Remaining:      core.Money{Cents: remaining},
			Progress:       core.RoundPercent(spent, b.Amount.Cents),
		})
	}
	return rows
}
