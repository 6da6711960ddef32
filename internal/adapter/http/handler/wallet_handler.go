package handler

import (
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/dto"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/middleware"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet-related endpoints.
type WalletHandler struct {
	walletSvc      ports.WalletService
	fiatCurrency   string
	pointsCurrency string
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, fiatCurrency, pointsCurrency string) *WalletHandler {
	return &WalletHandler{
		walletSvc:      walletSvc,
		fiatCurrency:   fiatCurrency,
		pointsCurrency: pointsCurrency,
	}
}

// currentUserID retrieves the authenticated user ID set by the JWT middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// parseAmount converts a request amount string to minor units.
func parseAmount(s string) (domain.Amount, error) {
	amount, err := domain.ParseAmount(s)
	if err != nil {
		return 0, apperror.ErrInvalidAmount()
	}
	return amount, nil
}

// checkCurrency rejects an amount denominated in anything but the currency
// the endpoint operates on. An empty value means the expected currency.
func checkCurrency(got, want string) error {
	if got != "" && got != want {
		return apperror.ErrCurrencyMismatch()
	}
	return nil
}

// GetBalance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.walletSvc.Balances(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		FiatBalance:    account.FiatBalance.String(),
		FiatCurrency:   h.fiatCurrency,
		PointsBalance:  account.PointsBalance.String(),
		PointsCurrency: h.pointsCurrency,
	})
}

// Send handles POST /api/v1/wallet/send.
func (h *WalletHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := checkCurrency(req.Currency, h.fiatCurrency); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.walletSvc.Send(c.Request.Context(), ports.SendRequest{
		UserID:  userID,
		ToPhone: req.ToPhone,
		Amount:  amount,
		Note:    req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Deposit handles POST /api/v1/wallet/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := checkCurrency(req.Currency, h.fiatCurrency); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.walletSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		UserID: userID,
		Amount: amount,
		Method: req.Method,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Withdraw handles POST /api/v1/wallet/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := checkCurrency(req.Currency, h.fiatCurrency); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.walletSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		UserID: userID,
		Amount: amount,
		Method: req.Method,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// PayBill handles POST /api/v1/wallet/pay-bill.
func (h *WalletHandler) PayBill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := checkCurrency(req.Currency, h.fiatCurrency); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.walletSvc.PayBill(c.Request.Context(), ports.PayBillRequest{
		UserID:        userID,
		Amount:        amount,
		BillType:      req.BillType,
		Provider:      req.Provider,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// BuyAirtime handles POST /api/v1/wallet/buy-airtime.
func (h *WalletHandler) BuyAirtime(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.BuyAirtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := checkCurrency(req.Currency, h.fiatCurrency); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.walletSvc.BuyAirtime(c.Request.Context(), ports.BuyAirtimeRequest{
		UserID:   userID,
		Amount:   amount,
		Provider: req.Provider,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// ConvertToPoints handles POST /api/v1/wallet/convert/to-points.
func (h *WalletHandler) ConvertToPoints(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	// The converted amount is fiat-denominated.
	if err := checkCurrency(req.Currency, h.fiatCurrency); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.walletSvc.ConvertToPoints(c.Request.Context(), userID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// ConvertToFiat handles POST /api/v1/wallet/convert/to-fiat.
func (h *WalletHandler) ConvertToFiat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	// The converted amount is points-denominated.
	if err := checkCurrency(req.Currency, h.pointsCurrency); err != nil {
		response.Error(c, err)
		return
	}

	points, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.walletSvc.ConvertToFiat(c.Request.Context(), userID, points)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// toTransactionResponse maps a domain transaction to its API shape.
func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:          t.ID.String(),
		Kind:        string(t.Kind),
		Amount:      t.Amount.String(),
		Fee:         t.Fee.String(),
		Total:       t.Total.String(),
		Status:      string(t.Status),
		Description: t.Description,
		Details:     t.Details,
		ReceiptID:   t.ReceiptID,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}
