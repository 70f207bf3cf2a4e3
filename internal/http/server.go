package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"calico/internal/cache"
	"calico/internal/core"
	"calico/internal/log"
	"calico/internal/middleware/trace"
	"calico/internal/receipt"
	"calico/internal/services"
)

// SettingsStore persists per-user preferences.
type SettingsStore interface {
	Settings(ctx context.Context, userID string) (core.UserSettings, error)
	SaveSettings(ctx context.Context, s core.UserSettings) error
}

// CategoryStore lists a user's categories, for the receipt parser prompt.
type CategoryStore interface {
	Categories(ctx context.Context, userID string) ([]core.Category, error)
}

// ReceiptParser turns a receipt image into a transaction draft.
type ReceiptParser interface {
	Parse(ctx context.Context, imageData []byte, mimeType string, categories []core.Category) (receipt.Parsed, error)
}

// Deps wires the server's collaborators. Receipts may be nil when no API key
// is configured; the endpoint then reports the feature as unavailable.
type Deps struct {
	Reports      *services.ReportService
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Settings     SettingsStore
	Categories   CategoryStore
	Receipts     ReceiptParser
}

type Server struct {
	http.Server
	deps        Deps
	rateLimiter *rateLimiter

	// Cached JSON bodies of aggregation GETs, keyed "<userID>:<path>?<query>".
	// Every write by a user drops all of that user's entries.
	respCache    *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		deps:         deps,
		rateLimiter:  newRateLimiter(),
		respCache:    cache.NewLRUCache[[]byte](500, 1*time.Minute),
		cacheManager: cache.NewManager(),
		now:          time.Now,
	}
	s.cacheManager.Register(s.respCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/recent", s.handleRecentTransactions)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets/summary", s.handleBudgetSummary)
	mux.HandleFunc("GET /api/budgets/table", s.handleBudgetTable)

	mux.HandleFunc("GET /api/dashboard/spending", s.handleSpending)
	mux.HandleFunc("GET /api/dashboard/top-categories", s.handleTopCategories)
	mux.HandleFunc("GET /api/dashboard/overspending", s.handleOverspending)

	mux.HandleFunc("GET /api/reports/trends", s.handleTrends)
	mux.HandleFunc("GET /api/reports/summary", s.handleReportSummary)
	mux.HandleFunc("GET /api/reports/insights", s.handleInsights)

	mux.HandleFunc("POST /api/receipts/parse", s.handleParseReceipt)

	mux.HandleFunc("GET /api/settings/theme", s.handleGetTheme)
	mux.HandleFunc("PUT /api/settings/theme", s.handlePutTheme)

	tracer := trace.NewMiddleware(extractClientIP)
	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(s.withSecurity(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// withSecurity adds security headers and rate-limits mutating requests.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			clientIP := extractClientIP(r)
			if !s.rateLimiter.allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path,
					log.FieldComponent, log.ComponentRateLimit)
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, errorDTO{Error: "rate limit exceeded"})
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// respondCached serves an aggregation view from the response cache, computing
// and storing the JSON body on a miss.
func (s *Server) respondCached(w http.ResponseWriter, r *http.Request, user string, compute func() (any, error)) {
	key := user + ":" + r.URL.Path + "?" + r.URL.RawQuery

	if body, found := s.respCache.Get(key); found {
		slog.DebugContext(r.Context(), "Response cache hit", "key", key)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	payload, err := compute()
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// invalidateUser drops every cached view for the user after a write.
func (s *Server) invalidateUser(user string) {
	removed := s.respCache.DeletePrefix(user + ":")
	if removed > 0 {
		slog.Debug("Invalidated cached views", "user_id", user, "count", removed)
	}
}
