package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account into the database.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (user_id, fiat_balance, points_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		a.UserID, a.FiatBalance, a.PointsBalance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByUserID fetches an account without locking.
func (r *AccountRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	query := `SELECT user_id, fiat_balance, points_balance, created_at, updated_at
		FROM accounts WHERE user_id = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&a.UserID, &a.FiatBalance, &a.PointsBalance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// GetByUserIDForUpdate fetches an account with a pessimistic row lock.
// This MUST be called within a transaction; the lock holds until commit or
// rollback, serializing read-check-debit per account.
func (r *AccountRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Account, error) {
	query := `SELECT user_id, fiat_balance, points_balance, created_at, updated_at
		FROM accounts WHERE user_id = $1 FOR UPDATE`

	a := &domain.Account{}
	err := tx.QueryRow(ctx, query, userID).Scan(
		&a.UserID, &a.FiatBalance, &a.PointsBalance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// UpdateBalances writes both balances within a transaction. The accounts
// table carries CHECK (fiat_balance >= 0 AND points_balance >= 0).
func (r *AccountRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, userID uuid.UUID, fiat, points domain.Amount) error {
	query := `UPDATE accounts SET fiat_balance = $1, points_balance = $2, updated_at = NOW() WHERE user_id = $3`

	tag, err := tx.Exec(ctx, query, fiat, points, userID)
	if err != nil {
		return fmt.Errorf("update balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", userID)
	}
	return nil
}
