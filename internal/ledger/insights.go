package ledger

import (
	"sort"
	"strings"

	"calico/internal/core"
)

// OverspendAlertLimit caps the overspending alert list.
const OverspendAlertLimit = 5

// BudgetUsage pairs an actual spend with its planned limit for the current
// period, for one budget or one category.
type BudgetUsage struct {
	Name  string
	Spent core.Money
	Limit core.Money
}

// Classification buckets budget usage by how close spending is to the limit.
type Classification struct {
	OnTrackCount      int
	NearingLimit      []string // 80% <= ratio < 100%
	OverBudget        []string // ratio >= 100%
	OnTrackPercentage int64    // rounded share of on-track entries
	Total             int
}

// Classify applies the threshold rules: under 80% of the limit is on track,
// 80 to just under 100 is nearing the limit, at or past the limit is over.
// A non-positive limit has no ratio and always counts as on track.
func Classify(items []BudgetUsage) Classification {
	c := Classification{Total: len(items)}
	for _, it := range items {
		switch {
		case it.Limit.Cents <= 0:
			c.OnTrackCount++
		case it.Spent.Cents >= it.Limit.Cents:
			c.OverBudget = append(c.OverBudget, it.Name)
		case it.Spent.Cents*5 >= it.Limit.Cents*4: // ratio >= 80%
			c.NearingLimit = append(c.NearingLimit, it.Name)
		default:
			c.OnTrackCount++
		}
	}
	c.OnTrackPercentage = core.RoundPercent(int64(c.OnTrackCount), int64(c.Total))
	return c
}

// OverspendAlert names a budget that exceeded its limit and by what percent.
type OverspendAlert struct {
	Name    string
	Percent int64 // rounded percent over the limit
}

// OverspendAlerts lists entries with spending strictly past a positive limit,
// sorted by overshoot percent descending, capped at OverspendAlertLimit.
func OverspendAlerts(items []BudgetUsage) []OverspendAlert {
	var alerts []OverspendAlert
	for _, it := range items {
		if it.Limit.Cents <= 0 || it.Spent.Cents <= it.Limit.Cents {
			continue
		}
		alerts = append(alerts, OverspendAlert{
			Name:    it.Name,
			Percent: core.RoundPercent(it.Spent.Cents-it.Limit.Cents, it.Limit.Cents),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Percent > alerts[j].Percent
	})
	if len(alerts) > OverspendAlertLimit {
		alerts = alerts[:OverspendAlertLimit]
	}
	return alerts
}

// ReductionPolicy flags categories whose absolute spend crosses a threshold,
// excluding essentials the user cannot realistically cut. The defaults mirror
// the product's blunt heuristic but both knobs are configurable.
type ReductionPolicy struct {
	ThresholdCents int64
	Exclude        map[string]bool // lowercased category names
}

// DefaultReductionPolicy suggests reductions past 100.00 in absolute spend,
// leaving rent and groceries alone.
func DefaultReductionPolicy() ReductionPolicy {
	return ReductionPolicy{
		ThresholdCents: 100_00,
		Exclude:        map[string]bool{"rent": true, "groceries": true},
	}
}

// SuggestedReductions returns the names of entries exceeding the threshold
// that are not excluded, in input order.
func (p ReductionPolicy) SuggestedReductions(items []BudgetUsage) []string {
	var names []string
	for _, it := range items {
		if it.Spent.Cents <= p.ThresholdCents {
			continue
		}
		if p.Exclude[strings.ToLower(it.Name)] {
			continue
		}
		names = append(names, it.Name)
	}
	return names
}

// ReportSummary aggregates a period's budget usage for the reports page.
type ReportSummary struct {
	TotalBudget       core.Money
	TotalSpent        core.Money
	BudgetUsedPercent int64
	OverBudgetCount   int
	NetVariance       core.Money // positive under budget, negative over
	Alerts            []OverspendAlert
}

// Summarize totals budget versus actual across all entries and attaches the
// overspending alert list.
func Summarize(items []BudgetUsage) ReportSummary {
	var s ReportSummary
	for _, it := range items {
		s.TotalBudget.Cents += it.Limit.Cents
		s.TotalSpent.Cents += it.Spent.Cents
		if it.Limit.Cents > 0 && it.Spent.Cents > it.Limit.Cents {
			s.OverBudgetCount++
		}
	}
	s.BudgetUsedPercent = core.RoundPercent(s.TotalSpent.Cents, s.TotalBudget.Cents)
	s.NetVariance = core.Money{Cents: s.TotalBudget.Cents - s.TotalSpent.Cents}
	s.Alerts = OverspendAlerts(items)
	return s
}
