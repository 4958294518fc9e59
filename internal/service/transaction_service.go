package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"finman/internal/errors"
	"finman/internal/model"
	"finman/internal/repository"
)

// TransactionInput carries the writable ledger entry fields.
type TransactionInput struct {
	Type       model.TransactionType
	Category   string
	Amount     string
	Note       string
	OccurredAt time.Time
}

// TransactionService handles income/expense ledger operations.
type TransactionService interface {
	Create(ctx context.Context, userID uuid.UUID, input TransactionInput) (*model.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, input TransactionInput) (*model.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type transactionService struct {
	repo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(repo repository.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, input TransactionInput) (*model.Transaction, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	txn := &model.Transaction{
		UserID:     userID,
		Type:       input.Type,
		Category:   input.Category,
		Amount:     amount,
		Note:       input.Note,
		OccurredAt: occurredAt,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return txn, nil
}

func (s *transactionService) List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

func (s *transactionService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) Update(ctx context.Context, userID, id uuid.UUID, input TransactionInput) (*model.Transaction, error) {
	txn, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Type != "" {
		txn.Type = input.Type
	}
	if input.Category != "" {
		txn.Category = input.Category
	}
	if input.Amount != "" {
		amount, err := parseAmount(input.Amount)
		if err != nil || !amount.IsPositive() {
			return nil, errors.ErrInvalidAmount
		}
		txn.Amount = amount
	}
	if input.Note != "" {
		txn.Note = input.Note
	}
	if !input.OccurredAt.IsZero() {
		txn.OccurredAt = input.OccurredAt
	}

	if err := s.repo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return txn, nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrNotFound
		}
		return err
	}
	return nil
}
