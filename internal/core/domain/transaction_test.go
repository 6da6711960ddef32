package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionKind_Debits(t *testing.T) {
	debits := []TransactionKind{KindSend, KindWithdraw, KindPayBill, KindBuyAirtime, KindConvertToPoints}
	for _, k := range debits {
		assert.True(t, k.Debits(), string(k))
	}
	assert.False(t, KindDeposit.Debits())
	assert.False(t, KindConvertToFiat.Debits())
}

func TestTransactionKind_Charged(t *testing.T) {
	charged := []TransactionKind{KindSend, KindWithdraw, KindPayBill, KindBuyAirtime}
	for _, k := range charged {
		assert.True(t, k.Charged(), string(k))
	}
	// Deposits and both conversion directions are fee-free.
	assert.False(t, KindDeposit.Charged())
	assert.False(t, KindConvertToPoints.Charged())
	assert.False(t, KindConvertToFiat.Charged())
}

func TestNewReceiptID(t *testing.T) {
	now := time.UnixMilli(1735689600123)
	assert.Equal(t, "RCP1735689600123", NewReceiptID(now))
}

func TestDetailsRoundTrip(t *testing.T) {
	tests := []struct {
		kind    TransactionKind
		details TransactionDetails
	}{
		{KindSend, SendDetails{CounterpartyPhone: "+251911234567", Note: "rent"}},
		{KindDeposit, DepositDetails{Method: "telebirr"}},
		{KindWithdraw, WithdrawDetails{Method: "cbe"}},
		{KindPayBill, BillDetails{BillType: "electricity", Provider: "EEU", AccountNumber: "0012345"}},
		{KindBuyAirtime, AirtimeDetails{Provider: "ethio telecom", Phone: "+251911234567"}},
		{KindConvertToPoints, ConversionDetails{Rate: 150, Converted: 200}},
		{KindConvertToFiat, ConversionDetails{Rate: 150, Converted: 30000}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			raw, err := EncodeDetails(tt.details)
			require.NoError(t, err)
			decoded, err := DecodeDetails(tt.kind, raw)
			require.NoError(t, err)
			assert.Equal(t, tt.details, decoded)
		})
	}
}

func TestDecodeDetails_Empty(t *testing.T) {
	d, err := DecodeDetails(KindSend, nil)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestDecodeDetails_UnknownKind(t *testing.T) {
	_, err := DecodeDetails(TransactionKind("REBATE"), []byte(`{}`))
	assert.Error(t, err)
}

func TestEncodeDetails_Nil(t *testing.T) {
	raw, err := EncodeDetails(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestTransaction_IsTerminal(t *testing.T) {
	txn := &Transaction{Status: StatusPending}
	assert.False(t, txn.IsTerminal())

	for _, s := range []TransactionStatus{StatusCompleted, StatusFailed, StatusCancelled} {
		txn.Status = s
		assert.True(t, txn.IsTerminal(), string(s))
	}
}
