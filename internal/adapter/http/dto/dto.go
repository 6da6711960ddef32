package dto

// RequestOTPRequest asks for a one-time code.
type RequestOTPRequest struct {
	Phone string `json:"phone" binding:"required,phone_et"`
}

// VerifyOTPRequest exchanges a code for a token.
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required,phone_et"`
	Code  string `json:"code" binding:"required,numeric,min=4,max=8"`
}

// RegisterRequest is the request body for email registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"required,phone_et"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for email login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response body for every successful login path.
type AuthResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// Money amounts cross the API as decimal strings ("500.00"); parsing to
// minor units happens in the handlers. The optional currency field lets a
// client state which balance it means; a value other than the one the
// endpoint operates on is rejected rather than silently reinterpreted.

// SendRequest is the request body for a money transfer.
type SendRequest struct {
	ToPhone  string `json:"to_phone" binding:"required,phone_et"`
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency,omitempty" binding:"omitempty,alpha,len=3"`
	Note     string `json:"note" binding:"max=200"`
}

// DepositRequest is the request body for a deposit.
type DepositRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency,omitempty" binding:"omitempty,alpha,len=3"`
	Method   string `json:"method" binding:"required,max=50"`
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency,omitempty" binding:"omitempty,alpha,len=3"`
	Method   string `json:"method" binding:"required,max=50"`
}

// PayBillRequest is the request body for a bill payment.
type PayBillRequest struct {
	Amount        string `json:"amount" binding:"required"`
	Currency      string `json:"currency,omitempty" binding:"omitempty,alpha,len=3"`
	BillType      string `json:"bill_type" binding:"required,max=50"`
	Provider      string `json:"provider" binding:"required,max=100"`
	AccountNumber string `json:"account_number" binding:"required,max=50"`
}

// BuyAirtimeRequest is the request body for an airtime purchase.
type BuyAirtimeRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency,omitempty" binding:"omitempty,alpha,len=3"`
	Provider string `json:"provider" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"required,phone_et"`
}

// ConvertRequest is the request body for both conversion directions. The
// amount is denominated in the currency being converted FROM.
type ConvertRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency,omitempty" binding:"omitempty,alpha,len=3"`
}

// UpdateProfileRequest changes display name and/or email.
type UpdateProfileRequest struct {
	Name  string  `json:"name" binding:"max=100"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// TransactionResponse is the response body for transaction results.
type TransactionResponse struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Amount      string      `json:"amount"`
	Fee         string      `json:"fee"`
	Total       string      `json:"total"`
	Status      string      `json:"status"`
	Description string      `json:"description"`
	Details     interface{} `json:"details,omitempty"`
	ReceiptID   string      `json:"receipt_id"`
	CreatedAt   string      `json:"created_at"`
	CompletedAt *string     `json:"completed_at,omitempty"`
}

// BalanceResponse is the response for the balance query.
type BalanceResponse struct {
	FiatBalance    string `json:"fiat_balance"`
	FiatCurrency   string `json:"fiat_currency"`
	PointsBalance  string `json:"points_balance"`
	PointsCurrency string `json:"points_currency"`
}

// ProfileResponse is the response for profile queries.
type ProfileResponse struct {
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
	Verified  bool    `json:"verified"`
	CreatedAt string  `json:"created_at"`
}

// StatsResponse is the response for history statistics.
type StatsResponse struct {
	TotalTransactions int64  `json:"total_transactions"`
	TotalSent         string `json:"total_sent"`
	TotalReceived     string `json:"total_received"`
	TotalFees         string `json:"total_fees"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
