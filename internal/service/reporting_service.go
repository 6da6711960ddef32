package service

import (
	"context"
	"fmt"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ReportingServiceImpl implements ports.ReportingService.
type ReportingServiceImpl struct {
	txRepo ports.TransactionRepository
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(txRepo ports.TransactionRepository) *ReportingServiceImpl {
	return &ReportingServiceImpl{txRepo: txRepo}
}

// ListTransactions returns the user's transaction log, newest first.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	txns, total, err := s.txRepo.ListByUser(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrPersistence(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// GetStats returns aggregated totals for the user's transaction history.
func (s *ReportingServiceImpl) GetStats(ctx context.Context, userID uuid.UUID) (*ports.TransactionStats, error) {
	stats, err := s.txRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get stats: %w", err))
	}
	return stats, nil
}
