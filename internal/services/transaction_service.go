package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"calico/internal/amqp"
	"calico/internal/core"
)

// TransactionStore is the slice of the repository the transaction service
// writes through.
type TransactionStore interface {
	Transactions(ctx context.Context, userID string) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	InsertTransaction(ctx context.Context, t core.Transaction) error
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	EnsureCategory(ctx context.Context, userID, name string) (core.Category, error)
}

// TransactionService orchestrates transaction writes across SQLite and AMQP
type TransactionService struct {
	store      TransactionStore
	amqpClient *amqp.Client
	now        func() time.Time
}

func NewTransactionService(store TransactionStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      store,
		amqpClient: amqpClient,
		now:        time.Now,
	}
}

// CreateTransactionInput is a manual transaction entry. Either CategoryID
// references an existing category, or CategoryName creates one inline.
type CreateTransactionInput struct {
	UserID       string
	Vendor       string
	Description  string
	Total        core.Money
	Date         time.Time
	Kind         core.Kind
	CategoryID   string
	CategoryName string
}

// Create validates and saves a transaction, resolving the category inline,
// then publishes a transaction-created event.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (core.Transaction, error) {
	categoryID, err := s.resolveCategory(ctx, in.UserID, in.CategoryID, in.CategoryName)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		ID:          uuid.NewString(),
		UserID:      strings.TrimSpace(in.UserID),
		Vendor:      strings.TrimSpace(in.Vendor),
		Description: strings.TrimSpace(in.Description),
		Total:       in.Total,
		Date:        in.Date,
		CreatedAt:   s.now(),
		Kind:        in.Kind,
		CategoryID:  categoryID,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// Save to SQLite first (fast, reliable)
	if err := s.store.InsertTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	// Publish async event (non-blocking)
	s.publishCreated(ctx, t.UserID, t.ID)

	return t, nil
}

// UpdateTransactionInput replaces the editable fields of a transaction.
type UpdateTransactionInput struct {
	UserID       string
	ID           string
	Vendor       string
	Description  string
	Total        core.Money
	Date         time.Time
	Kind         core.Kind
	CategoryID   string
	CategoryName string
}

// Update atomically replaces a transaction's editable fields.
func (s *TransactionService) Update(ctx context.Context, in UpdateTransactionInput) (core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, in.UserID, in.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}

	categoryID, err := s.resolveCategory(ctx, in.UserID, in.CategoryID, in.CategoryName)
	if err != nil {
		return core.Transaction{}, err
	}

	existing.Vendor = strings.TrimSpace(in.Vendor)
	existing.Description = strings.TrimSpace(in.Description)
	existing.Total = in.Total
	existing.Date = in.Date
	existing.Kind = in.Kind
	existing.CategoryID = categoryID
	if err := existing.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.UpdateTransaction(ctx, existing); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return existing, nil
}

// Delete removes a transaction owned by the user.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(userID) == "" {
		return core.ErrNotAuthenticated
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// List returns every transaction owned by the user.
func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.ErrNotAuthenticated
	}
	txs, err := s.store.Transactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// resolveCategory picks an explicit category ID, creates one by name, or
// leaves the transaction uncategorized.
func (s *TransactionService) resolveCategory(ctx context.Context, userID, categoryID, categoryName string) (string, error) {
	if categoryID != "" {
		return categoryID, nil
	}
	if strings.TrimSpace(categoryName) == "" {
		return "", nil
	}
	category, err := s.store.EnsureCategory(ctx, userID, categoryName)
	if err != nil {
		return "", fmt.Errorf("ensure category: %w", err)
	}
	return category.ID, nil
}

func (s *TransactionService) publishCreated(ctx context.Context, userID, transactionID string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping transaction event")
		return
	}
	if err := s.amqpClient.PublishTransactionCreated(ctx, userID, transactionID); err != nil {
		// Don't fail the request - the transaction is saved locally
		slog.ErrorContext(ctx, "Failed to publish transaction created event",
			"transaction_id", transactionID, "error", err)
	}
}
