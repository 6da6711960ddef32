package ports

import (
	"context"
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"

	"github.com/google/uuid"
)

// WalletService is the ledger-operation protocol behind every money-moving
// action: validate amount, compute fee and total, check funds, apply the
// balance delta, and record the transaction — atomically.
type WalletService interface {
	Send(ctx context.Context, req SendRequest) (*domain.Transaction, error)
	Deposit(ctx context.Context, req DepositRequest) (*domain.Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Transaction, error)
	PayBill(ctx context.Context, req PayBillRequest) (*domain.Transaction, error)
	BuyAirtime(ctx context.Context, req BuyAirtimeRequest) (*domain.Transaction, error)
	ConvertToPoints(ctx context.Context, userID uuid.UUID, amount domain.Amount) (*domain.Transaction, error)
	ConvertToFiat(ctx context.Context, userID uuid.UUID, points domain.Amount) (*domain.Transaction, error)
	Balances(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
}

// SendRequest holds validated input for a money transfer.
type SendRequest struct {
	UserID  uuid.UUID
	ToPhone string
	Amount  domain.Amount
	Note    string
}

// DepositRequest holds validated input for a deposit.
type DepositRequest struct {
	UserID uuid.UUID
	Amount domain.Amount
	Method string
}

// WithdrawRequest holds validated input for a withdrawal.
type WithdrawRequest struct {
	UserID uuid.UUID
	Amount domain.Amount
	Method string
}

// PayBillRequest holds validated input for a bill payment.
type PayBillRequest struct {
	UserID        uuid.UUID
	Amount        domain.Amount
	BillType      string
	Provider      string
	AccountNumber string
}

// BuyAirtimeRequest holds validated input for an airtime purchase.
type BuyAirtimeRequest struct {
	UserID   uuid.UUID
	Amount   domain.Amount
	Provider string
	Phone    string
}

// ReportingService defines transaction-history business logic.
type ReportingService interface {
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*TransactionStats, error)
}

// AuthService defines authentication business logic: phone + OTP login and
// email/password register + login.
type AuthService interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// RegisterRequest holds input for email registration.
type RegisterRequest struct {
	Name     string
	Phone    string
	Email    string
	Password string
}

// LoginResult is returned by every successful authentication path.
type LoginResult struct {
	User   *domain.User
	Token  string
	Expiry time.Time
}

// ProfileService defines user profile management.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string, email *string) (*domain.User, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, phone string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Phone  string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// OTPStore holds pending one-time codes, keyed by phone, with TTL.
type OTPStore interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) error
	// Consume checks the stored code for the phone and deletes it on match.
	// Returns false for a wrong, expired, or already-used code.
	Consume(ctx context.Context, phone, code string) (bool, error)
}

// OTPSender delivers a one-time code to a phone number. SMS gateway wiring
// is an external collaborator; the default implementation only logs.
type OTPSender interface {
	Send(ctx context.Context, phone, code string) error
}

// MirrorService pushes committed transaction records to a remote document
// endpoint. Best-effort and asynchronous; never blocks a ledger operation.
type MirrorService interface {
	EnqueueTransaction(ctx context.Context, txn *domain.Transaction) error
}
