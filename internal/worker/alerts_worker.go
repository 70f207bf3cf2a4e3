package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"calico/internal/amqp"
	"calico/internal/ledger"
)

// OverspendReporter computes the overspending alerts for a user and period.
type OverspendReporter interface {
	Overspending(ctx context.Context, userID string, p ledger.Period) ([]ledger.OverspendAlert, error)
}

// AlertsWorker reacts to transaction events by re-evaluating the user's
// current-month budgets and logging an alert for every budget at or past
// its limit. Alerts are deduplicated per user and budget until the next
// reset, so a burst of transactions does not repeat the same warning.
type AlertsWorker struct {
	reports OverspendReporter
	now     func() time.Time

	mu sync.Mutex
	// last alerted percentage per "<userID>/<budget name>"
	notified map[string]int64
}

func NewAlertsWorker(reports OverspendReporter) *AlertsWorker {
	return &AlertsWorker{
		reports:  reports,
		now:      time.Now,
		notified: make(map[string]int64),
	}
}

// HandleTransactionCreated processes a single transaction event from AMQP.
func (w *AlertsWorker) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"user_id", msg.UserID,
		"transaction_id", msg.TransactionID)

	now := w.now()
	p := ledger.Month(now.Year(), int(now.Month()))

	alerts, err := w.reports.Overspending(ctx, msg.UserID, p)
	if err != nil {
		return fmt.Errorf("evaluate overspending for user %s: %w", msg.UserID, err)
	}

	fresh := 0
	for _, a := range alerts {
		if !w.shouldNotify(msg.UserID, a) {
			continue
		}
		fresh++
		slog.WarnContext(ctx, "Budget overspent",
			"user_id", msg.UserID,
			"budget", a.Name,
			"over_percent", a.Percent)
	}

	if fresh == 0 {
		slog.DebugContext(ctx, "No new overspending alerts",
			"user_id", msg.UserID, "active", len(alerts))
	}
	return nil
}

// shouldNotify records the alert and reports whether it is new or has grown
// since the last notification.
func (w *AlertsWorker) shouldNotify(userID string, a ledger.OverspendAlert) bool {
	key := userID + "/" + a.Name

	w.mu.Lock()
	defer w.mu.Unlock()

	if last, seen := w.notified[key]; seen && a.Percent <= last {
		return false
	}
	w.notified[key] = a.Percent
	return true
}

// ResetNotifications clears the dedup state so the next evaluation alerts
// again. Run it periodically, and at month rollover.
func (w *AlertsWorker) ResetNotifications(ctx context.Context) {
	w.mu.Lock()
	n := len(w.notified)
	w.notified = make(map[string]int64)
	w.mu.Unlock()

	if n > 0 {
		slog.InfoContext(ctx, "Cleared overspending alert state", "entries", n)
	}
}

// Run consumes transaction events until the context is cancelled, resetting
// the dedup state on every tick of the given interval.
func (w *AlertsWorker) Run(ctx context.Context, client *amqp.Client, resetInterval time.Duration) error {
	ticker := time.NewTicker(resetInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.ResetNotifications(ctx)
			}
		}
	}()

	return client.ConsumeTransactionCreated(ctx, w.HandleTransactionCreated)
}
