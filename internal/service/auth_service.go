package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService: phone + OTP login and
// email/password register + login. First successful OTP verification
// provisions the user and a zero-balance account.
type AuthServiceImpl struct {
	userRepo    ports.UserRepository
	accountRepo ports.AccountRepository
	otpStore    ports.OTPStore
	otpSender   ports.OTPSender
	hashSvc     ports.HashService
	tokenSvc    ports.TokenService
	otpLength   int
	otpTTL      time.Duration
	log         zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	accountRepo ports.AccountRepository,
	otpStore ports.OTPStore,
	otpSender ports.OTPSender,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	otpLength int,
	otpTTL time.Duration,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		otpStore:    otpStore,
		otpSender:   otpSender,
		hashSvc:     hashSvc,
		tokenSvc:    tokenSvc,
		otpLength:   otpLength,
		otpTTL:      otpTTL,
		log:         log,
	}
}

// RequestOTP generates a one-time code for the phone and hands it to the
// sender. The code lives in the OTP store until consumed or expired.
func (s *AuthServiceImpl) RequestOTP(ctx context.Context, phone string) error {
	code, err := generateOTP(s.otpLength)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("generate otp: %w", err))
	}

	if err := s.otpStore.Put(ctx, phone, code, s.otpTTL); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("store otp: %w", err))
	}

	if err := s.otpSender.Send(ctx, phone, code); err != nil {
		return apperror.InternalError(fmt.Errorf("send otp: %w", err))
	}

	s.log.Info().Str("phone", phone).Msg("otp issued")
	return nil
}

// VerifyOTP consumes the code and logs the user in, creating the user and a
// zero-balance account on first login.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, phone, code string) (*ports.LoginResult, error) {
	ok, err := s.otpStore.Consume(ctx, phone, code)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("consume otp: %w", err))
	}
	if !ok {
		return nil, apperror.ErrInvalidOTP()
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		user, err = s.provisionUser(ctx, phone, "", nil, nil)
		if err != nil {
			return nil, err
		}
	}
	if !user.IsActive() {
		return nil, apperror.ErrUserBlocked()
	}

	return s.issueToken(user)
}

// Register creates an email/password user with an attached phone number.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.LoginResult, error) {
	existing, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("check phone: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrPhoneExists()
	}
	existing, err = s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.Validation("email already registered")
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	user, err := s.provisionUser(ctx, req.Phone, req.Name, &req.Email, &passwordHash)
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login validates email credentials and returns a JWT.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("find user: %w", err))
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, *user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}
	if !user.IsActive() {
		return nil, apperror.ErrUserBlocked()
	}

	return s.issueToken(user)
}

// provisionUser creates the user record and its zero-balance account.
func (s *AuthServiceImpl) provisionUser(ctx context.Context, phone, name string, email, passwordHash *string) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: passwordHash,
		Status:       domain.UserStatusActive,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("create user: %w", err))
	}

	account := &domain.Account{
		UserID:        user.ID,
		FiatBalance:   0,
		PointsBalance: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("phone", phone).Msg("user provisioned")
	return user, nil
}

func (s *AuthServiceImpl) issueToken(user *domain.User) (*ports.LoginResult, error) {
	token, expiry, err := s.tokenSvc.Generate(user.ID, user.Phone)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}
	return &ports.LoginResult{User: user, Token: token, Expiry: expiry}, nil
}

// generateOTP returns a random numeric code of n digits.
func generateOTP(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
