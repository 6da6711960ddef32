package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TransactionKind represents the kind of money movement.
type TransactionKind string

const (
	KindSend            TransactionKind = "SEND"
	KindDeposit         TransactionKind = "DEPOSIT"
	KindWithdraw        TransactionKind = "WITHDRAW"
	KindPayBill         TransactionKind = "PAY_BILL"
	KindBuyAirtime      TransactionKind = "BUY_AIRTIME"
	KindConvertToPoints TransactionKind = "CONVERT_TO_POINTS"
	KindConvertToFiat   TransactionKind = "CONVERT_TO_FIAT"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// TransactionDetails is the kind-specific payload of a transaction record.
// Exactly one concrete type applies per TransactionKind.
type TransactionDetails interface {
	isTransactionDetails()
}

// SendDetails accompanies KindSend.
type SendDetails struct {
	CounterpartyPhone string `json:"counterparty_phone"`
	Note              string `json:"note,omitempty"`
}

// DepositDetails accompanies KindDeposit.
type DepositDetails struct {
	Method string `json:"method"`
}

// WithdrawDetails accompanies KindWithdraw.
type WithdrawDetails struct {
	Method string `json:"method"`
}

// BillDetails accompanies KindPayBill.
type BillDetails struct {
	BillType      string `json:"bill_type"`
	Provider      string `json:"provider"`
	AccountNumber string `json:"account_number"`
}

// AirtimeDetails accompanies KindBuyAirtime.
type AirtimeDetails struct {
	Provider string `json:"provider"`
	Phone    string `json:"phone"`
}

// ConversionDetails accompanies KindConvertToPoints and KindConvertToFiat.
type ConversionDetails struct {
	Rate      int64  `json:"rate"`      // fiat minor units per point minor unit
	Converted Amount `json:"converted"` // amount credited on the other leg
}

func (SendDetails) isTransactionDetails()       {}
func (DepositDetails) isTransactionDetails()    {}
func (WithdrawDetails) isTransactionDetails()   {}
func (BillDetails) isTransactionDetails()       {}
func (AirtimeDetails) isTransactionDetails()    {}
func (ConversionDetails) isTransactionDetails() {}

// Transaction is an immutable ledger entry owned by the account that
// initiated it. Only Status and CompletedAt may change after creation
// (PENDING -> COMPLETED or FAILED).
type Transaction struct {
	ID          uuid.UUID          `json:"id"` // UUIDv7, time-ordered
	UserID      uuid.UUID          `json:"user_id"`
	Kind        TransactionKind    `json:"kind"`
	Amount      Amount             `json:"amount"`
	Fee         Amount             `json:"fee"`
	Total       Amount             `json:"total"` // Amount + Fee
	Status      TransactionStatus  `json:"status"`
	Description string             `json:"description"`
	Details     TransactionDetails `json:"details,omitempty"`
	ReceiptID   string             `json:"receipt_id"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status != StatusPending
}

// Debits reports whether the kind moves money out of the fiat balance.
func (k TransactionKind) Debits() bool {
	switch k {
	case KindSend, KindWithdraw, KindPayBill, KindBuyAirtime, KindConvertToPoints:
		return true
	}
	return false
}

// Charged reports whether the kind is subject to the transfer fee schedule.
// Deposits and both conversion legs are free.
func (k TransactionKind) Charged() bool {
	switch k {
	case KindSend, KindWithdraw, KindPayBill, KindBuyAirtime:
		return true
	}
	return false
}

// NewReceiptID generates a receipt identifier in the RCP<unix-millis> format.
func NewReceiptID(now time.Time) string {
	return "RCP" + strconv.FormatInt(now.UnixMilli(), 10)
}

// EncodeDetails serializes a details payload for the JSONB column.
// A nil payload encodes as nil.
func EncodeDetails(d TransactionDetails) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode transaction details: %w", err)
	}
	return raw, nil
}

// DecodeDetails deserializes a details payload by transaction kind.
func DecodeDetails(kind TransactionKind, raw []byte) (TransactionDetails, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var (
		d   TransactionDetails
		err error
	)
	switch kind {
	case KindSend:
		v := SendDetails{}
		err = json.Unmarshal(raw, &v)
		d = v
	case KindDeposit:
		v := DepositDetails{}
		err = json.Unmarshal(raw, &v)
		d = v
	case KindWithdraw:
		v := WithdrawDetails{}
		err = json.Unmarshal(raw, &v)
		d = v
	case KindPayBill:
		v := BillDetails{}
		err = json.Unmarshal(raw, &v)
		d = v
	case KindBuyAirtime:
		v := AirtimeDetails{}
		err = json.Unmarshal(raw, &v)
		d = v
	case KindConvertToPoints, KindConvertToFiat:
		v := ConversionDetails{}
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		return nil, fmt.Errorf("unknown transaction kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", kind, err)
	}
	return d, nil
}
