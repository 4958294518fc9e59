package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finman/internal/cache"
	"finman/internal/errors"
	"finman/internal/model"
	"finman/internal/repository"
)

const reportCacheTTL = 15 * time.Minute

// ReportSummary is the aggregated view of a user's ledger over a period.
type ReportSummary struct {
	From              time.Time                  `json:"from"`
	To                time.Time                  `json:"to"`
	TotalIncome       decimal.Decimal            `json:"totalIncome"`
	TotalExpense      decimal.Decimal            `json:"totalExpense"`
	Net               decimal.Decimal            `json:"net"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expenseByCategory"`
	TransactionCount  int                        `json:"transactionCount"`
}

// GeneratedReport pairs a persisted report row with its summary.
type GeneratedReport struct {
	Report  *model.Report  `json:"report"`
	Summary *ReportSummary `json:"summary"`
}

// ReportService generates and serves ledger reports.
type ReportService interface {
	Generate(ctx context.Context, userID uuid.UUID, from, to time.Time) (*GeneratedReport, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Report, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*GeneratedReport, error)
}

type reportService struct {
	reports      repository.ReportRepository
	transactions repository.TransactionRepository
	cache        *cache.Client
}

// NewReportService creates a new report service.
func NewReportService(reports repository.ReportRepository, transactions repository.TransactionRepository, cache *cache.Client) ReportService {
	return &reportService{
		reports:      reports,
		transactions: transactions,
		cache:        cache,
	}
}

func reportCacheKey(userID uuid.UUID, from, to time.Time) string {
	return fmt.Sprintf("report:%s:%d:%d", userID, from.Unix(), to.Unix())
}

func (s *reportService) Generate(ctx context.Context, userID uuid.UUID, from, to time.Time) (*GeneratedReport, error) {
	if !from.Before(to) {
		return nil, errors.ErrInvalidPeriod
	}

	key := reportCacheKey(userID, from, to)
	var cached GeneratedReport
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	txns, err := s.transactions.ListByUser(ctx, userID, repository.TransactionFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	summary := &ReportSummary{
		From:              from,
		To:                to,
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		ExpenseByCategory: make(map[string]decimal.Decimal),
		TransactionCount:  len(txns),
	}
	for _, txn := range txns {
		switch txn.Type {
		case model.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(txn.Amount)
		case model.TransactionExpense:
			summary.TotalExpense = summary.TotalExpense.Add(txn.Amount)
			current := summary.ExpenseByCategory[txn.Category]
			summary.ExpenseByCategory[txn.Category] = current.Add(txn.Amount)
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	report := &model.Report{
		UserID:  userID,
		From:    from,
		To:      to,
		Summary: string(payload),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	generated := &GeneratedReport{Report: report, Summary: summary}
	s.cache.SetJSON(ctx, key, generated, reportCacheTTL)
	return generated, nil
}

func (s *reportService) List(ctx context.Context, userID uuid.UUID) ([]model.Report, error) {
	return s.reports.ListByUser(ctx, userID)
}

func (s *reportService) Get(ctx context.Context, userID, id uuid.UUID) (*GeneratedReport, error) {
	report, err := s.reports.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}

	var summary ReportSummary
	if err := json.Unmarshal([]byte(report.Summary), &summary); err != nil {
		return nil, fmt.Errorf("decode report summary: %w", err)
	}
	return &GeneratedReport{Report: report, Summary: &summary}, nil
}
