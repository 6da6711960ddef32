package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var ledgerOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ethiopay_ledger_operations_total",
	Help: "Ledger operations by transaction kind and outcome.",
}, []string{"kind", "outcome"})

// WalletServiceImpl implements ports.WalletService.
//
// Every operation runs the same sequence inside one database transaction:
// lock the account row, validate, mutate the balance, append the transaction
// record, commit. The row lock makes read-check-debit a single atomic unit
// per account, so two near-simultaneous calls cannot both pass the funds
// check before either debit commits.
type WalletServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	schedule    *domain.FeeSchedule
	rate        int64 // fiat minor units per point minor unit
	mirror      ports.MirrorService
	log         zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl. mirror may be nil.
func NewWalletService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	schedule *domain.FeeSchedule,
	exchangeRate int64,
	mirror ports.MirrorService,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		schedule:    schedule,
		rate:        exchangeRate,
		mirror:      mirror,
		log:         log,
	}
}

// Send debits amount + fee and records a SEND transaction.
func (s *WalletServiceImpl) Send(ctx context.Context, req ports.SendRequest) (*domain.Transaction, error) {
	desc := req.Note
	if desc == "" {
		desc = "Send to " + req.ToPhone
	}
	return s.apply(ctx, req.UserID, domain.KindSend, req.Amount, desc, domain.SendDetails{
		CounterpartyPhone: req.ToPhone,
		Note:              req.Note,
	})
}

// Deposit credits amount with no fee and records a DEPOSIT transaction.
func (s *WalletServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Transaction, error) {
	return s.apply(ctx, req.UserID, domain.KindDeposit, req.Amount,
		"Deposit via "+req.Method, domain.DepositDetails{Method: req.Method})
}

// Withdraw debits amount + fee and records a WITHDRAW transaction.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Transaction, error) {
	return s.apply(ctx, req.UserID, domain.KindWithdraw, req.Amount,
		"Withdraw to "+req.Method, domain.WithdrawDetails{Method: req.Method})
}

// PayBill debits amount + fee and records a PAY_BILL transaction.
func (s *WalletServiceImpl) PayBill(ctx context.Context, req ports.PayBillRequest) (*domain.Transaction, error) {
	desc := fmt.Sprintf("%s bill - %s", req.BillType, req.Provider)
	return s.apply(ctx, req.UserID, domain.KindPayBill, req.Amount, desc, domain.BillDetails{
		BillType:      req.BillType,
		Provider:      req.Provider,
		AccountNumber: req.AccountNumber,
	})
}

// BuyAirtime debits amount + fee and records a BUY_AIRTIME transaction.
func (s *WalletServiceImpl) BuyAirtime(ctx context.Context, req ports.BuyAirtimeRequest) (*domain.Transaction, error) {
	return s.apply(ctx, req.UserID, domain.KindBuyAirtime, req.Amount,
		req.Provider+" airtime", domain.AirtimeDetails{
			Provider: req.Provider,
			Phone:    req.Phone,
		})
}

// apply is the shared ledger-operation protocol for single-balance moves.
// Either both the balance mutation and the transaction append commit, or
// neither does.
func (s *WalletServiceImpl) apply(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.TransactionKind,
	amount domain.Amount,
	description string,
	details domain.TransactionDetails,
) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		ledgerOpsTotal.WithLabelValues(string(kind), "invalid_amount").Inc()
		return nil, apperror.ErrInvalidAmount()
	}

	var fee domain.Amount
	if kind.Charged() {
		var err error
		fee, err = s.schedule.Fee(amount)
		if err != nil {
			return nil, err
		}
	}
	total := amount + fee

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}

	newFiat := account.FiatBalance
	if kind.Debits() {
		if account.FiatBalance < total {
			ledgerOpsTotal.WithLabelValues(string(kind), "insufficient_funds").Inc()
			return nil, apperror.ErrInsufficientFunds()
		}
		newFiat -= total
	} else {
		newFiat += amount
	}

	now := time.Now().UTC()
	txn, err := newTransaction(userID, kind, amount, fee, description, details, now)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	if err := s.accountRepo.UpdateBalances(ctx, dbTx, userID, newFiat, account.PointsBalance); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("update balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("append transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("commit tx: %w", err))
	}

	s.afterCommit(ctx, txn, newFiat)
	return txn, nil
}

// ConvertToPoints debits the fiat balance and credits the points balance at
// the fixed exchange rate. No fee on either leg. Both legs commit together
// or not at all.
func (s *WalletServiceImpl) ConvertToPoints(ctx context.Context, userID uuid.UUID, amount domain.Amount) (*domain.Transaction, error) {
	return s.convert(ctx, userID, domain.KindConvertToPoints, amount)
}

// ConvertToFiat credits the fiat balance from the points balance at the
// fixed exchange rate. The points argument is in ETP minor units.
func (s *WalletServiceImpl) ConvertToFiat(ctx context.Context, userID uuid.UUID, points domain.Amount) (*domain.Transaction, error) {
	return s.convert(ctx, userID, domain.KindConvertToFiat, points)
}

func (s *WalletServiceImpl) convert(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.TransactionKind,
	amount domain.Amount,
) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		ledgerOpsTotal.WithLabelValues(string(kind), "invalid_amount").Inc()
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}

	var (
		newFiat, newPoints domain.Amount
		converted          domain.Amount
		description        string
	)
	switch kind {
	case domain.KindConvertToPoints:
		if account.FiatBalance < amount {
			ledgerOpsTotal.WithLabelValues(string(kind), "insufficient_funds").Inc()
			return nil, apperror.ErrInsufficientFunds()
		}
		converted = domain.ConvertAtRate(amount, s.rate)
		newFiat = account.FiatBalance - amount
		newPoints = account.PointsBalance + converted
		description = fmt.Sprintf("Convert %s ETB to %s ETP", amount, converted)
	case domain.KindConvertToFiat:
		if account.PointsBalance < amount {
			ledgerOpsTotal.WithLabelValues(string(kind), "insufficient_funds").Inc()
			return nil, apperror.ErrInsufficientFunds()
		}
		converted = amount * domain.Amount(s.rate)
		newFiat = account.FiatBalance + converted
		newPoints = account.PointsBalance - amount
		description = fmt.Sprintf("Convert %s ETP to %s ETB", amount, converted)
	default:
		return nil, apperror.InternalError(fmt.Errorf("not a conversion kind: %s", kind))
	}

	now := time.Now().UTC()
	txn, err := newTransaction(userID, kind, amount, 0, description, domain.ConversionDetails{
		Rate:      s.rate,
		Converted: converted,
	}, now)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	if err := s.accountRepo.UpdateBalances(ctx, dbTx, userID, newFiat, newPoints); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("update balances: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("append transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("commit tx: %w", err))
	}

	s.afterCommit(ctx, txn, newFiat)
	return txn, nil
}

// Balances returns the current account balances.
func (s *WalletServiceImpl) Balances(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return account, nil
}

// newTransaction builds a completed, immutable ledger record.
func newTransaction(
	userID uuid.UUID,
	kind domain.TransactionKind,
	amount, fee domain.Amount,
	description string,
	details domain.TransactionDetails,
	now time.Time,
) (*domain.Transaction, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate transaction id: %w", err)
	}
	return &domain.Transaction{
		ID:          id,
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Fee:         fee,
		Total:       amount + fee,
		Status:      domain.StatusCompleted,
		Description: description,
		Details:     details,
		ReceiptID:   domain.NewReceiptID(now),
		CreatedAt:   now,
		CompletedAt: &now,
	}, nil
}

// afterCommit handles post-commit concerns: metrics, logging, and
// best-effort remote mirroring. Never fails the operation.
func (s *WalletServiceImpl) afterCommit(ctx context.Context, txn *domain.Transaction, newFiat domain.Amount) {
	ledgerOpsTotal.WithLabelValues(string(txn.Kind), "completed").Inc()

	if s.mirror != nil {
		if err := s.mirror.EnqueueTransaction(ctx, txn); err != nil {
			s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("failed to enqueue transaction mirror")
		}
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("user_id", txn.UserID.String()).
		Str("kind", string(txn.Kind)).
		Str("amount", txn.Amount.String()).
		Str("fee", txn.Fee.String()).
		Str("balance", newFiat.String()).
		Msg("ledger operation committed")
}
