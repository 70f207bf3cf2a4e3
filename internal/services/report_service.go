package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"calico/internal/core"
	"calico/internal/ledger"
)

// RecordStore is the slice of the repository the report service reads from.
type RecordStore interface {
	Transactions(ctx context.Context, userID string) ([]core.Transaction, error)
	Categories(ctx context.Context, userID string) ([]core.Category, error)
	Budgets(ctx context.Context, userID string) ([]core.Budget, error)
	BudgetCategoryLinks(ctx context.Context, userID string) ([]core.BudgetCategoryLink, error)
}

// ReportService computes dashboard, budget and report views from the record
// store. Every read is fail-soft: a failed fetch degrades to the empty
// collection with an error log, so a partial store outage thins the data
// instead of breaking the page. Only a missing user identity is an error.
type ReportService struct {
	store RecordStore
}

func NewReportService(store RecordStore) *ReportService {
	return &ReportService{store: store}
}

// snapshot is one consistent read of everything aggregation needs.
type snapshot struct {
	txs      []core.Transaction
	budgets  []core.Budget
	links    []core.BudgetCategoryLink
	resolver ledger.CategoryResolver
}

// fetch loads all collections concurrently. Individual failures are logged
// and replaced with empty results.
func (s *ReportService) fetch(ctx context.Context, userID string) (snapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return snapshot{}, core.ErrNotAuthenticated
	}

	var (
		snap snapshot
		cats []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.store.Transactions(gctx, userID)
		if err != nil {
			slog.ErrorContext(gctx, "Failed to fetch transactions, degrading to empty",
				"user_id", userID, "error", err)
			return nil
		}
		snap.txs = txs
		return nil
	})
	g.Go(func() error {
		budgets, err := s.store.Budgets(gctx, userID)
		if err != nil {
			slog.ErrorContext(gctx, "Failed to fetch budgets, degrading to empty",
				"user_id", userID, "error", err)
			return nil
		}
		snap.budgets = budgets
		return nil
	})
	g.Go(func() error {
		links, err := s.store.BudgetCategoryLinks(gctx, userID)
		if err != nil {
			slog.ErrorContext(gctx, "Failed to fetch budget links, degrading to empty",
				"user_id", userID, "error", err)
			return nil
		}
		snap.links = links
		return nil
	})
	g.Go(func() error {
		fetched, err := s.store.Categories(gctx, userID)
		if err != nil {
			slog.ErrorContext(gctx, "Failed to fetch categories, degrading to empty",
				"user_id", userID, "error", err)
			return nil
		}
		cats = fetched
		return nil
	})

	// Goroutines never return errors; Wait only propagates context failure.
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	snap.resolver = ledger.NewCategoryResolver(cats)
	return snap, nil
}

// BudgetTable returns one row per budget for the period.
func (s *ReportService) BudgetTable(ctx context.Context, userID string, p ledger.Period) ([]ledger.BudgetRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.BudgetTable(snap.budgets, snap.links, snap.resolver, snap.txs, p), nil
}

// CashFlowSummary backs the income / expenses / balance cards.
type CashFlowSummary struct {
	Income   core.Money
	Expenses core.Money
	Balance  core.Money // income minus expenses, may be negative
}

// SummaryCards sums income and expenses over the trailing 30 days ending now.
func (s *ReportService) SummaryCards(ctx context.Context, userID string, now time.Time) (CashFlowSummary, error) {
	snap, err := s.fetch(ctx, userID)
	if err != nil {
		return CashFlowSummary{}, err
	}

	p := ledger.Period{Start: now.AddDate(0, 0, -30), End: now}
	var window []core.Transaction
	for _, tx := range snap.txs {
		if p.Contains(tx.Date) {
			window = append(window, tx)
		}
	}

	income, expenses := ledger.CashFlow(window)
	return CashFlowSummary{
		Income:   income,
		Expenses: expenses,
		Balance:  core.Money{Cents: income.Cents - expenses.Cents},
	}, nil
}

// Spending returns the cumulative daily expense series for the period.
func (s *ReportService) Spending(ctx context.Context, userID string, p ledger.Period) ([]ledger.DailyPoint, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.CumulativeSpending(snap.txs, p), nil
}

// TopCategories ranks the period's expense spending by category.
func (s *ReportService) TopCategories(ctx context.Context, userID string, p ledger.Period) ([]ledger.CategorySpend, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	var window []core.Transaction
	for _, tx := range snap.txs {
		if p.Contains(tx.Date) {
			window = append(window, tx)
		}
	}
	return ledger.TopSpendingCategories(window, snap.resolver), nil
}

// Recent returns the newest transactions by creation time.
func (s *ReportService) Recent(ctx context.Context, userID string) ([]core.Transaction, error) {
	snap, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.RecentTransactions(snap.txs), nil
}

// Trends returns the month-over-month spending rows across the whole history.
func (s *ReportService) Trends(ctx context.Context, userID string) ([]ledger.TrendRow, error) {
	snap, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.MonthlyTrends(snap.txs, snap.budgets, snap.links, snap.resolver), nil
}

// usageForPeriod derives per-budget usage entries from the budget table.
func usageForPeriod(rows []ledger.BudgetRow) []ledger.BudgetUsage {
	usage := make([]ledger.BudgetUsage, 0, len(rows))
	for _, row := range rows {
		usage = append(usage, ledger.BudgetUsage{
			Name:  row.Title,
			Spent: row.Spent,
			Limit: row.Budget,
		})
	}
	return usage
}

// Overspending lists the period's worst budget overshoots.
func (s *ReportService) Overspending(ctx context.Context, userID string, p ledger.Period) ([]ledger.OverspendAlert, error) {
	rows, err := s.BudgetTable(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return ledger.OverspendAlerts(usageForPeriod(rows)), nil
}

// InsightsReport is the budget-page insight block.
type InsightsReport struct {
	Classification      ledger.Classification
	SuggestedReductions []string
}

// Insights classifies the period's budgets and suggests spending reductions
// per the given policy.
func (s *ReportService) Insights(ctx context.Context, userID string, p ledger.Period, policy ledger.ReductionPolicy) (InsightsReport, error) {
	if err := p.Validate(); err != nil {
		return InsightsReport{}, err
	}
	snap, err := s.fetch(ctx, userID)
	if err != nil {
		return InsightsReport{}, err
	}

	rows := ledger.BudgetTable(snap.budgets, snap.links, snap.resolver, snap.txs, p)
	usage := usageForPeriod(rows)

	// Reductions look at per-category absolute spend, not budget rows.
	var categoryUsage []ledger.BudgetUsage
	var window []core.Transaction
	for _, tx := range snap.txs {
		if p.Contains(tx.Date) {
			window = append(window, tx)
		}
	}
	for id, cents := range ledger.SumByCategory(window, core.Expense) {
		categoryUsage = append(categoryUsage, ledger.BudgetUsage{
			Name:  snap.resolver.Name(id),
			Spent: core.Money{Cents: cents},
		})
	}
	sort.Slice(categoryUsage, func(i, j int) bool {
		return categoryUsage[i].Name < categoryUsage[j].Name
	})

	return InsightsReport{
		Classification:      ledger.Classify(usage),
		SuggestedReductions: policy.SuggestedReductions(categoryUsage),
	}, nil
}

// Summary aggregates the period's budget-versus-actual totals.
func (s *ReportService) Summary(ctx context.Context, userID string, p ledger.Period) (ledger.ReportSummary, error) {
	rows, err := s.BudgetTable(ctx, userID, p)
	if err != nil {
		return ledger.ReportSummary{}, err
	}
	return ledger.Summarize(usageForPeriod(rows)), nil
}
