package core

import (
	"testing"
	"time"
)

func TestKindValidate(t *testing.T) {
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Kind("transfer").Validate(); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("expected ok for zero, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	good := Transaction{
		UserID: "u1",
		Vendor: "Starbucks",
		Total:  Money{Cents: 875},
		Date:   date,
		Kind:   Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{UserID: "", Vendor: "v", Total: Money{Cents: 1}, Date: date, Kind: Expense},
		{UserID: "u1", Vendor: "", Total: Money{Cents: 1}, Date: date, Kind: Expense},
		{UserID: "u1", Vendor: "v", Total: Money{Cents: -1}, Date: date, Kind: Expense},
		{UserID: "u1", Vendor: "v", Total: Money{Cents: 1}, Date: time.Time{}, Kind: Expense},
		{UserID: "u1", Vendor: "v", Total: Money{Cents: 1}, Date: date, Kind: Kind("loan")},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{UserID: "u1", Title: "Groceries", Amount: Money{Cents: 50000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{UserID: "u1", Title: "", Amount: Money{Cents: 1}}).Validate(); err == nil {
		t.Fatalf("expected error for empty title")
	}
	if err := (Budget{UserID: "u1", Title: "t", Amount: Money{Cents: -1}}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := []struct {
		cat  Category
		want string
	}{
		{Category{Name: "Groceries", Emoji: "🛒"}, "Groceries 🛒"},
		{Category{Name: "Rent"}, "Rent"},
	}
	for _, tc := range cases {
		if got := tc.cat.Label(); got != tc.want {
			t.Fatalf("Label() = %q, want %q", got, tc.want)
		}
	}
}
