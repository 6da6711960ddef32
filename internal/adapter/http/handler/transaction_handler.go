package handler

import (
	"strconv"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/dto"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles transaction history endpoints.
type TransactionHandler struct {
	reportingSvc ports.ReportingService
	txRepo       ports.TransactionRepository
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(reportingSvc ports.ReportingService, txRepo ports.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{
		reportingSvc: reportingSvc,
		txRepo:       txRepo,
	}
}

// List handles GET /api/v1/transactions.
// Query params: kind, status, page, page_size.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	params := ports.TransactionListParams{UserID: userID}

	if v := c.Query("kind"); v != "" {
		kind := domain.TransactionKind(v)
		params.Kind = &kind
	}
	if v := c.Query("status"); v != "" {
		status := domain.TransactionStatus(v)
		params.Status = &status
	}
	if v := c.Query("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			params.Page = page
		}
	}
	if v := c.Query("page_size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			params.PageSize = size
		}
	}

	items, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.TransactionListResponse{
		Items:    make([]dto.TransactionResponse, 0, len(items)),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	if resp.Page < 1 {
		resp.Page = 1
	}
	if resp.PageSize < 1 {
		resp.PageSize = 20
	}
	resp.TotalPages = int((total + int64(resp.PageSize) - 1) / int64(resp.PageSize))
	for i := range items {
		resp.Items = append(resp.Items, toTransactionResponse(&items[i]))
	}

	response.OK(c, resp)
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	txn, err := h.txRepo.GetByID(c.Request.Context(), txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	// Records are visible only to the account that owns them.
	if txn == nil || txn.UserID != userID {
		response.Error(c, apperror.ErrNotFound("Transaction"))
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// Stats handles GET /api/v1/transactions/stats.
func (h *TransactionHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	stats, err := h.reportingSvc.GetStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatsResponse{
		TotalTransactions: stats.TotalTransactions,
		TotalSent:         domain.Amount(stats.TotalSent).String(),
		TotalReceived:     domain.Amount(stats.TotalReceived).String(),
		TotalFees:         domain.Amount(stats.TotalFees).String(),
	})
}
