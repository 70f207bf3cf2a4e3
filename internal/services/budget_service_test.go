package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"calico/internal/core"
)

type fakeBudgetStore struct {
	budget core.Budget
	links  []string
}

func (f *fakeBudgetStore) InsertBudget(ctx context.Context, b core.Budget, categoryIDs []string) error {
	f.budget = b
	f.links = categoryIDs
	return nil
}

func (f *fakeBudgetStore) EnsureCategory(ctx context.Context, userID, name string) (core.Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	return core.Category{ID: "cat-" + key, UserID: userID, Name: strings.TrimSpace(name)}, nil
}

func TestBudgetService_Create(t *testing.T) {
	store := &fakeBudgetStore{}
	s := NewBudgetService(store)
	s.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }

	created, err := s.Create(context.Background(), CreateBudgetInput{
		UserID:        "u1",
		Title:         " Household ",
		Amount:        core.Money{Cents: 50000},
		CategoryIDs:   []string{"cat-rent", "cat-rent", ""},
		CategoryNames: []string{"Utilities"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" || created.Title != "Household" {
		t.Fatalf("created = %+v", created)
	}
	if !created.CreatedAt.Equal(s.now()) {
		t.Fatalf("CreatedAt = %v", created.CreatedAt)
	}
	// Duplicates and blanks dropped, inline category appended.
	want := []string{"cat-rent", "cat-utilities"}
	if len(store.links) != len(want) {
		t.Fatalf("links = %v, want %v", store.links, want)
	}
	for i := range want {
		if store.links[i] != want[i] {
			t.Fatalf("links = %v, want %v", store.links, want)
		}
	}
}

func TestBudgetService_CreateValidation(t *testing.T) {
	s := NewBudgetService(&fakeBudgetStore{})

	cases := []struct {
		name    string
		input   CreateBudgetInput
		wantErr error
	}{
		{
			name:    "blank user",
			input:   CreateBudgetInput{Title: "x", Amount: core.Money{Cents: 100}},
			wantErr: core.ErrNotAuthenticated,
		},
		{
			name:    "blank title",
			input:   CreateBudgetInput{UserID: "u1", Title: "  ", Amount: core.Money{Cents: 100}},
			wantErr: core.ErrEmptyTitle,
		},
		{
			name:    "negative amount",
			input:   CreateBudgetInput{UserID: "u1", Title: "x", Amount: core.Money{Cents: -1}},
			wantErr: core.ErrInvalidAmount,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Create(context.Background(), tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
