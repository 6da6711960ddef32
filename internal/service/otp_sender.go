package service

import (
	"context"

	"github.com/rs/zerolog"
)

// LogOTPSender implements ports.OTPSender by logging the code. A real SMS
// gateway is an external collaborator and is wired in its place when
// available.
type LogOTPSender struct {
	log zerolog.Logger
}

// NewLogOTPSender creates a sender that logs codes at debug level.
func NewLogOTPSender(log zerolog.Logger) *LogOTPSender {
	return &LogOTPSender{log: log}
}

// Send logs the code instead of delivering it.
func (s *LogOTPSender) Send(_ context.Context, phone, code string) error {
	s.log.Debug().Str("phone", phone).Str("code", code).Msg("otp code issued (log sender)")
	return nil
}
