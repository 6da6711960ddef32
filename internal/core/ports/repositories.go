package ports

import (
	"context"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// AccountRepository is the balance store. Methods accepting pgx.Tx run inside
// transaction blocks so read-check-debit is a single atomic unit per account.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Account, error)
	UpdateBalances(ctx context.Context, tx pgx.Tx, userID uuid.UUID, fiat, points domain.Amount) error
}

// TransactionRepository is the append-only transaction store. Records are
// never deleted; retrieval is ordered by creation time descending.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByUser(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*TransactionStats, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	UserID   uuid.UUID
	Kind     *domain.TransactionKind
	Status   *domain.TransactionStatus
	Page     int
	PageSize int
}

// TransactionStats holds aggregated totals for the history screen.
type TransactionStats struct {
	TotalTransactions int64
	TotalSent         int64 // sum of completed debit totals, minor units
	TotalReceived     int64 // sum of completed deposit amounts, minor units
	TotalFees         int64 // sum of completed fees, minor units
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
