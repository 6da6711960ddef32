package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account holds a user's balances. Both balances are in minor units and are
// never negative: every debit path checks funds under a row lock before
// mutating.
type Account struct {
	UserID        uuid.UUID `json:"user_id"`
	FiatBalance   Amount    `json:"fiat_balance"`   // ETB
	PointsBalance Amount    `json:"points_balance"` // ETP
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
