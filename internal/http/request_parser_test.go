package http

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"calico/internal/core"
)

func TestUserID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/transactions", nil)
	if _, err := userID(r); !errors.Is(err, core.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	r.Header.Set(UserIDHeader, "  ")
	if _, err := userID(r); !errors.Is(err, core.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for blank header, got %v", err)
	}

	r.Header.Set(UserIDHeader, " user-1 ")
	id, err := userID(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "user-1" {
		t.Errorf("expected trimmed user-1, got %q", id)
	}
}

func TestPeriodFromQuery(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		target    string
		wantStart time.Time
		wantErr   bool
	}{
		{
			name:      "defaults to current month",
			target:    "/api/budgets/table",
			wantStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "explicit year and month",
			target:    "/api/budgets/table?year=2024&month=2",
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month only",
			target:    "/api/budgets/table?month=1",
			wantStart: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "month out of range",
			target:  "/api/budgets/table?month=13",
			wantErr: true,
		},
		{
			name:    "month not a number",
			target:  "/api/budgets/table?month=abc",
			wantErr: true,
		},
		{
			name:    "year not a number",
			target:  "/api/budgets/table?year=20x5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			p, err := periodFromQuery(r, now)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidPeriod) {
					t.Fatalf("expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !p.Start.Equal(tt.wantStart) {
				t.Errorf("expected start %v, got %v", tt.wantStart, p.Start)
			}
		})
	}
}

func TestTransactionRequestAmountCents(t *testing.T) {
	req := transactionRequest{Amount: "12.34"}
	m, err := req.amountCents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Cents != 1234 {
		t.Errorf("expected 1234 cents, got %d", m.Cents)
	}

	req.Amount = "12,345"
	m, err = req.amountCents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Cents != 1235 {
		t.Errorf("expected half-up 1235 cents, got %d", m.Cents)
	}

	req.Amount = "-5"
	if _, err := req.amountCents(); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for signed input, got %v", err)
	}
}

func TestTransactionRequestParseDate(t *testing.T) {
	req := transactionRequest{Date: "2025-06-15"}
	d, err := req.parseDate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.June || d.Day() != 15 {
		t.Errorf("unexpected date %v", d)
	}

	req.Date = "15/06/2025"
	if _, err := req.parseDate(); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr fallback",
			remoteAddr: "192.168.1.1:1234",
			want:       "192.168.1.1:1234",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			want:       "203.0.113.5",
		},
		{
			name:       "x-forwarded-for chain takes first hop",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 70.41.3.18, 150.172.238.178"},
			want:       "203.0.113.5",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
