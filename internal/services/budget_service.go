package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"calico/internal/core"
)

// BudgetStore is the slice of the repository the budget service writes
// through.
type BudgetStore interface {
	InsertBudget(ctx context.Context, b core.Budget, categoryIDs []string) error
	EnsureCategory(ctx context.Context, userID, name string) (core.Category, error)
}

// BudgetService creates budgets together with their category links.
type BudgetService struct {
	store BudgetStore
	now   func() time.Time
}

func NewBudgetService(store BudgetStore) *BudgetService {
	return &BudgetService{store: store, now: time.Now}
}

// CreateBudgetInput is a new budget with its linked categories. CategoryIDs
// reference existing categories; CategoryNames create categories inline.
type CreateBudgetInput struct {
	UserID        string
	Title         string
	Amount        core.Money
	CategoryIDs   []string
	CategoryNames []string
}

// Create validates and stores a budget with its category links.
func (s *BudgetService) Create(ctx context.Context, in CreateBudgetInput) (core.Budget, error) {
	b := core.Budget{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(in.UserID),
		Title:     strings.TrimSpace(in.Title),
		Amount:    in.Amount,
		CreatedAt: s.now(),
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	categoryIDs := make([]string, 0, len(in.CategoryIDs)+len(in.CategoryNames))
	seen := make(map[string]bool)
	for _, id := range in.CategoryIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		categoryIDs = append(categoryIDs, id)
	}
	for _, name := range in.CategoryNames {
		category, err := s.store.EnsureCategory(ctx, b.UserID, name)
		if err != nil {
			return core.Budget{}, fmt.Errorf("ensure category: %w", err)
		}
		if seen[category.ID] {
			continue
		}
		seen[category.ID] = true
		categoryIDs = append(categoryIDs, category.ID)
	}

	if err := s.store.InsertBudget(ctx, b, categoryIDs); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return b, nil
}
