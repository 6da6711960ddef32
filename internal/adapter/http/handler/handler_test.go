package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/dto"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/middleware"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports/mocks"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Name:     "Abebe Bikila",
		Phone:    "+251911234567",
		Email:    "abebe@example.com",
		Password: "password123",
	}).Return(&ports.LoginResult{
		User: &domain.User{
			ID:    userID,
			Name:  "Abebe Bikila",
			Phone: "+251911234567",
		},
		Token:  "jwt-token-123",
		Expiry: expiry,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Abebe Bikila",
		Phone:    "+251911234567",
		Email:    "abebe@example.com",
		Password: "password123",
	})

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, userID.String(), data["user_id"])
	assert.Equal(t, "jwt-token-123", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w, c := jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]string{})

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_PhoneExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrPhoneExists())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.RegisterRequest{
		Name:     "Taken",
		Phone:    "+251911234567",
		Email:    "taken@example.com",
		Password: "password123",
	})

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRequestOTP_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().RequestOTP(gomock.Any(), "+251911234567").Return(nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.RequestOTPRequest{Phone: "+251911234567"})

	h.RequestOTP(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "verification code sent", data["message"])
}

func TestRequestOTP_InvalidPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.RequestOTPRequest{Phone: "12345"})

	h.RequestOTP(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyOTP_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().VerifyOTP(gomock.Any(), "+251911234567", "123456").Return(&ports.LoginResult{
		User: &domain.User{
			ID:    userID,
			Name:  "",
			Phone: "+251911234567",
		},
		Token:  "jwt-token-456",
		Expiry: time.Now().Add(24 * time.Hour),
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.VerifyOTPRequest{
		Phone: "+251911234567",
		Code:  "123456",
	})

	h.VerifyOTP(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-456", data["token"])
	assert.Equal(t, "+251911234567", data["phone"])
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().VerifyOTP(gomock.Any(), "+251911234567", "000000").Return(nil, apperror.ErrInvalidOTP())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.VerifyOTPRequest{
		Phone: "+251911234567",
		Code:  "000000",
	})

	h.VerifyOTP(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().Login(gomock.Any(), "abebe@example.com", "password123").Return(&ports.LoginResult{
		User: &domain.User{
			ID:    userID,
			Name:  "Abebe Bikila",
			Phone: "+251911234567",
		},
		Token:  "jwt-token-789",
		Expiry: time.Now().Add(24 * time.Hour),
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.LoginRequest{
		Email:    "abebe@example.com",
		Password: "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-789", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad@example.com", "badpassword").Return(nil, apperror.ErrInvalidCredentials())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.LoginRequest{
		Email:    "bad@example.com",
		Password: "badpassword",
	})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Wallet Handler Tests ---

func TestGetBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	userID := uuid.New()
	mockWallet.EXPECT().Balances(gomock.Any(), userID).Return(&domain.Account{
		UserID:        userID,
		FiatBalance:   100000,
		PointsBalance: 250,
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)

	h.GetBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "1000.00", data["fiat_balance"])
	assert.Equal(t, "ETB", data["fiat_currency"])
	assert.Equal(t, "2.50", data["points_balance"])
	assert.Equal(t, "ETP", data["points_currency"])
}

func TestGetBalance_MissingUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	w, c := jsonRequest(t, http.MethodGet, "/", nil)

	h.GetBalance(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSend_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	userID := uuid.New()
	txID := uuid.New()
	now := time.Now()

	mockWallet.EXPECT().Send(gomock.Any(), ports.SendRequest{
		UserID:  userID,
		ToPhone: "+251922345678",
		Amount:  50000,
		Note:    "lunch",
	}).Return(&domain.Transaction{
		ID:          txID,
		UserID:      userID,
		Kind:        domain.KindSend,
		Amount:      50000,
		Fee:         100,
		Total:       50100,
		Status:      domain.StatusCompleted,
		ReceiptID:   "RCP1735689600123",
		CreatedAt:   now,
		CompletedAt: &now,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.SendRequest{
		ToPhone: "+251922345678",
		Amount:  "500.00",
		Note:    "lunch",
	})
	c.Set(middleware.CtxUserID, userID)

	h.Send(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, txID.String(), data["id"])
	assert.Equal(t, "SEND", data["kind"])
	assert.Equal(t, "500.00", data["amount"])
	assert.Equal(t, "1.00", data["fee"])
	assert.Equal(t, "501.00", data["total"])
	assert.Equal(t, "RCP1735689600123", data["receipt_id"])
}

func TestSend_InvalidAmountString(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	userID := uuid.New()
	w, c := jsonRequest(t, http.MethodPost, "/", dto.SendRequest{
		ToPhone: "+251922345678",
		Amount:  "abc",
	})
	c.Set(middleware.CtxUserID, userID)

	h.Send(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WAL_001", resp["error_code"])
}

func TestSend_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	userID := uuid.New()
	mockWallet.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientFunds())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.SendRequest{
		ToPhone: "+251922345678",
		Amount:  "99999.00",
	})
	c.Set(middleware.CtxUserID, userID)

	h.Send(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	userID := uuid.New()
	now := time.Now()

	mockWallet.EXPECT().Deposit(gomock.Any(), ports.DepositRequest{
		UserID: userID,
		Amount: 100000,
		Method: "telebirr",
	}).Return(&domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.KindDeposit,
		Amount:    100000,
		Fee:       0,
		Total:     100000,
		Status:    domain.StatusCompleted,
		CreatedAt: now,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.DepositRequest{
		Amount: "1000.00",
		Method: "telebirr",
	})
	c.Set(middleware.CtxUserID, userID)

	h.Deposit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "0.00", data["fee"])
}

func TestConvertToPoints_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	userID := uuid.New()
	now := time.Now()

	mockWallet.EXPECT().ConvertToPoints(gomock.Any(), userID, domain.Amount(30000)).Return(&domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.KindConvertToPoints,
		Amount:    30000,
		Fee:       0,
		Total:     30000,
		Status:    domain.StatusCompleted,
		Details:   domain.ConversionDetails{Rate: 150, Converted: 200},
		CreatedAt: now,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.ConvertRequest{Amount: "300.00"})
	c.Set(middleware.CtxUserID, userID)

	h.ConvertToPoints(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "CONVERT_TO_POINTS", data["kind"])
}

func TestSend_CurrencyMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	// A points-denominated amount on a fiat endpoint is rejected before the
	// service is touched.
	w, c := jsonRequest(t, http.MethodPost, "/", dto.SendRequest{
		ToPhone:  "+251922345678",
		Amount:   "500.00",
		Currency: "ETP",
	})
	c.Set(middleware.CtxUserID, uuid.New())

	h.Send(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WAL_005", resp["error_code"])
}

func TestSend_ExplicitFiatCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	userID := uuid.New()
	now := time.Now()
	mockWallet.EXPECT().Send(gomock.Any(), gomock.Any()).Return(&domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.KindSend,
		Amount:    50000,
		Fee:       100,
		Total:     50100,
		Status:    domain.StatusCompleted,
		CreatedAt: now,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.SendRequest{
		ToPhone:  "+251922345678",
		Amount:   "500.00",
		Currency: "ETB",
	})
	c.Set(middleware.CtxUserID, userID)

	h.Send(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestConvertToFiat_CurrencyMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, "ETB", "ETP")

	// Converting points back to fiat takes a points-denominated amount.
	w, c := jsonRequest(t, http.MethodPost, "/", dto.ConvertRequest{
		Amount:   "2.00",
		Currency: "ETB",
	})
	c.Set(middleware.CtxUserID, uuid.New())

	h.ConvertToFiat(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WAL_005", resp["error_code"])
}

// --- Transaction Handler Tests ---

func TestListTransactions_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockReporting, mockTxRepo)

	userID := uuid.New()
	now := time.Now()

	mockReporting.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]domain.Transaction{
		{
			ID:        uuid.New(),
			UserID:    userID,
			Kind:      domain.KindSend,
			Amount:    50000,
			Fee:       100,
			Total:     50100,
			Status:    domain.StatusCompleted,
			CreatedAt: now,
		},
	}, int64(1), nil)

	w, c := jsonRequest(t, http.MethodGet, "/?page=1&page_size=20", nil)
	c.Set(middleware.CtxUserID, userID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestListTransactions_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockReporting, mockTxRepo)

	userID := uuid.New()
	mockReporting.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, int64(0), errors.New("db down"))

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)

	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockReporting, mockTxRepo)

	userID := uuid.New()
	txID := uuid.New()
	now := time.Now()

	mockTxRepo.EXPECT().GetByID(gomock.Any(), txID).Return(&domain.Transaction{
		ID:        txID,
		UserID:    userID,
		Kind:      domain.KindWithdraw,
		Amount:    20000,
		Fee:       100,
		Total:     20100,
		Status:    domain.StatusCompleted,
		CreatedAt: now,
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)
	c.Params = gin.Params{{Key: "id", Value: txID.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, txID.String(), data["id"])
}

func TestGetTransaction_OtherUsersRecordIsHidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockReporting, mockTxRepo)

	userID := uuid.New()
	txID := uuid.New()

	mockTxRepo.EXPECT().GetByID(gomock.Any(), txID).Return(&domain.Transaction{
		ID:     txID,
		UserID: uuid.New(), // belongs to someone else
		Kind:   domain.KindSend,
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)
	c.Params = gin.Params{{Key: "id", Value: txID.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTransaction_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockReporting, mockTxRepo)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	h := NewTransactionHandler(mockReporting, mockTxRepo)

	userID := uuid.New()
	mockReporting.EXPECT().GetStats(gomock.Any(), userID).Return(&ports.TransactionStats{
		TotalTransactions: 42,
		TotalSent:         500000,
		TotalReceived:     1000000,
		TotalFees:         2500,
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)

	h.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(42), data["total_transactions"])
	assert.Equal(t, "5000.00", data["total_sent"])
	assert.Equal(t, "10000.00", data["total_received"])
	assert.Equal(t, "25.00", data["total_fees"])
}

// --- User Handler Tests ---

func TestGetProfile_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfile := mocks.NewMockProfileService(ctrl)
	h := NewUserHandler(mockProfile)

	userID := uuid.New()
	email := "abebe@example.com"
	mockProfile.EXPECT().GetProfile(gomock.Any(), userID).Return(&domain.User{
		ID:       userID,
		Name:     "Abebe Bikila",
		Phone:    "+251911234567",
		Email:    &email,
		Verified: true,
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)

	h.GetProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Abebe Bikila", data["name"])
	assert.Equal(t, "abebe@example.com", data["email"])
	assert.Equal(t, true, data["verified"])
}

func TestUpdateProfile_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfile := mocks.NewMockProfileService(ctrl)
	h := NewUserHandler(mockProfile)

	userID := uuid.New()
	newEmail := "new@example.com"
	mockProfile.EXPECT().UpdateProfile(gomock.Any(), userID, "New Name", &newEmail).Return(&domain.User{
		ID:    userID,
		Name:  "New Name",
		Phone: "+251911234567",
		Email: &newEmail,
	}, nil)

	w, c := jsonRequest(t, http.MethodPatch, "/", dto.UpdateProfileRequest{
		Name:  "New Name",
		Email: &newEmail,
	})
	c.Set(middleware.CtxUserID, userID)

	h.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "New Name", data["name"])
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfile := mocks.NewMockProfileService(ctrl)
	h := NewUserHandler(mockProfile)

	userID := uuid.New()
	takenEmail := "taken@example.com"
	mockProfile.EXPECT().UpdateProfile(gomock.Any(), userID, "", &takenEmail).
		Return(nil, apperror.Validation("email already in use"))

	w, c := jsonRequest(t, http.MethodPatch, "/", dto.UpdateProfileRequest{
		Email: &takenEmail,
	})
	c.Set(middleware.CtxUserID, userID)

	h.UpdateProfile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Check Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Ping(_ context.Context) error { return s.err }

func TestHealthCheck_AllUp(t *testing.T) {
	w, c := jsonRequest(t, http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "up", deps["postgres"])
	assert.Equal(t, "up", deps["redis"])
}

func TestHealthCheck_DependencyDown(t *testing.T) {
	w, c := jsonRequest(t, http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis", err: errors.New("connection refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Contains(t, deps["redis"], "down")
}
