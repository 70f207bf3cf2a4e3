package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"calico/internal/core"
	"calico/internal/ledger"
)

// UserIDHeader carries the authenticated user identity, injected by the
// fronting auth proxy. A missing or blank header is the unauthenticated
// condition, distinct from a user who merely has no data.
const UserIDHeader = "X-User-ID"

const maxBodyBytes = 1 << 20 // 1 MiB JSON bodies

func userID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if id == "" {
		return "", core.ErrNotAuthenticated
	}
	return id, nil
}

// periodFromQuery reads optional year/month parameters, defaulting to the
// current month.
func periodFromQuery(r *http.Request, now time.Time) (ledger.Period, error) {
	year := now.Year()
	month := int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return ledger.Period{}, fmt.Errorf("%w: bad year %q", core.ErrInvalidPeriod, v)
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return ledger.Period{}, fmt.Errorf("%w: bad month %q", core.ErrInvalidPeriod, v)
		}
		month = m
	}

	p := ledger.Month(year, month)
	if err := p.Validate(); err != nil {
		return ledger.Period{}, err
	}
	return p, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// amountField accepts the amount as a decimal string ("12.34", "12,34") or a
// bare JSON number.
type amountField string

func (a *amountField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = amountField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or decimal string")
	}
	*a = amountField(n.String())
	return nil
}

func (a amountField) cents() (core.Money, error) {
	cents, err := core.ParseDecimalToCents(string(a))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// transactionRequest is the JSON body for creating or updating a transaction.
type transactionRequest struct {
	Vendor       string      `json:"vendor"`
	Description  string      `json:"description"`
	Amount       amountField `json:"amount"`
	Date         string      `json:"date"` // YYYY-MM-DD
	Kind         string      `json:"kind"`
	CategoryID   string      `json:"categoryId"`
	CategoryName string      `json:"categoryName"`
}

func (req transactionRequest) amountCents() (core.Money, error) {
	return req.Amount.cents()
}

func (req transactionRequest) parseDate() (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", req.Date)
	}
	return d, nil
}

// budgetRequest is the JSON body for creating a budget with its links.
type budgetRequest struct {
	Title         string      `json:"title"`
	Amount        amountField `json:"amount"`
	CategoryIDs   []string    `json:"categoryIds"`
	CategoryNames []string    `json:"categoryNames"`
}

func (req budgetRequest) amountCents() (core.Money, error) {
	return req.Amount.cents()
}

// themeRequest is the JSON body for the theme preference setter.
type themeRequest struct {
	Theme string `json:"theme"`
}

// extractClientIP resolves the client address, honoring proxy headers.
func extractClientIP(r *http.Request) string {
	clientIP := r.Header.Get("X-Forwarded-For")
	if clientIP == "" {
		clientIP = r.Header.Get("X-Real-IP")
	}
	if clientIP == "" {
		clientIP = r.RemoteAddr
	}
	// X-Forwarded-For may carry a chain; the first hop is the client.
	if idx := strings.Index(clientIP, ","); idx != -1 {
		clientIP = strings.TrimSpace(clientIP[:idx])
	}
	return clientIP
}
