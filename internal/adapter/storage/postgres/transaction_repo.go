package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The transactions
// table is append-only: rows are inserted once and never deleted.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const txColumns = `id, user_id, kind, amount, fee, total, status, description, details, receipt_id, created_at, completed_at`

// Create inserts a transaction record within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	details, err := domain.EncodeDetails(t.Details)
	if err != nil {
		return err
	}

	query := `INSERT INTO transactions (id, user_id, kind, amount, fee, total, status, description, details, receipt_id, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = tx.Exec(ctx, query,
		t.ID, t.UserID, t.Kind, t.Amount, t.Fee, t.Total,
		t.Status, t.Description, details, t.ReceiptID,
		t.CreatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// ListByUser fetches the user's transactions newest first, with filtering
// and pagination.
func (r *TransactionRepo) ListByUser(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
	args = append(args, params.UserID)
	argIdx++

	if params.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *params.Kind)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		txColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// GetStats retrieves aggregated totals for a user's history. The sent-total
// IN-list must cover every kind TransactionKind.Debits reports true for.
func (r *TransactionRepo) GetStats(ctx context.Context, userID uuid.UUID) (*ports.TransactionStats, error) {
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(total) FILTER (WHERE status = 'COMPLETED' AND kind IN ('SEND','WITHDRAW','PAY_BILL','BUY_AIRTIME','CONVERT_TO_POINTS')), 0),
		COALESCE(SUM(amount) FILTER (WHERE status = 'COMPLETED' AND kind = 'DEPOSIT'), 0),
		COALESCE(SUM(fee) FILTER (WHERE status = 'COMPLETED'), 0)
		FROM transactions WHERE user_id = $1`

	stats := &ports.TransactionStats{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.TotalTransactions, &stats.TotalSent, &stats.TotalReceived, &stats.TotalFees,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}

// scanTransaction reads one row and rebuilds the kind-specific details.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var details []byte
	err := row.Scan(
		&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Fee, &t.Total,
		&t.Status, &t.Description, &details, &t.ReceiptID,
		&t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Details, err = domain.DecodeDetails(t.Kind, details)
	if err != nil {
		return nil, err
	}
	return t, nil
}
