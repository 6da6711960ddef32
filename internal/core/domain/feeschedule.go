package domain

import (
	"fmt"

	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"
)

// FeeBand maps a contiguous amount range to a flat fee. Max == 0 marks the
// final, unbounded band.
type FeeBand struct {
	Min Amount
	Max Amount
	Fee Amount
}

// Unbounded reports whether the band has no upper limit.
func (b FeeBand) Unbounded() bool {
	return b.Max == 0
}

// FeeSchedule is an ordered, gapless set of fee bands. Immutable once built;
// constructed once at process start.
type FeeSchedule struct {
	bands []FeeBand
}

// NewFeeSchedule validates the band table and returns a schedule.
// Bands must be ascending, contiguous (each Min is the previous Max plus one
// minor unit), and end with exactly one unbounded band.
func NewFeeSchedule(bands []FeeBand) (*FeeSchedule, error) {
	if len(bands) == 0 {
		return nil, apperror.ErrInvalidScheduleConfig(fmt.Errorf("empty band table"))
	}
	for i, b := range bands {
		last := i == len(bands)-1
		if b.Min <= 0 {
			return nil, apperror.ErrInvalidScheduleConfig(fmt.Errorf("band %d: min must be positive, got %d", i, b.Min))
		}
		if b.Fee < 0 {
			return nil, apperror.ErrInvalidScheduleConfig(fmt.Errorf("band %d: negative fee %d", i, b.Fee))
		}
		if last {
			if !b.Unbounded() {
				return nil, apperror.ErrInvalidScheduleConfig(fmt.Errorf("final band must be unbounded"))
			}
			continue
		}
		if b.Unbounded() {
			return nil, apperror.ErrInvalidScheduleConfig(fmt.Errorf("band %d: only the final band may be unbounded", i))
		}
		if b.Max < b.Min {
			return nil, apperror.ErrInvalidScheduleConfig(fmt.Errorf("band %d: max %d below min %d", i, b.Max, b.Min))
		}
		if next := bands[i+1]; next.Min != b.Max+1 {
			return nil, apperror.ErrInvalidScheduleConfig(fmt.Errorf("band %d-%d: gap or overlap between max %d and next min %d", i, i+1, b.Max, next.Min))
		}
	}
	s := &FeeSchedule{bands: make([]FeeBand, len(bands))}
	copy(s.bands, bands)
	return s, nil
}

// DefaultFeeSchedule returns the canonical transfer fee table:
//
//	0.01 –  100.00 ETB -> 0.50
//	100.01 –  500.00 ETB -> 1.00
//	500.01 – 1000.00 ETB -> 2.00
//	1000.01 – 1500.00 ETB -> 3.00
//	above 1500.00 ETB -> 5.00
func DefaultFeeSchedule() (*FeeSchedule, error) {
	return NewFeeSchedule([]FeeBand{
		{Min: 1, Max: 10_000, Fee: 50},
		{Min: 10_001, Max: 50_000, Fee: 100},
		{Min: 50_001, Max: 100_000, Fee: 200},
		{Min: 100_001, Max: 150_000, Fee: 300},
		{Min: 150_001, Max: 0, Fee: 500},
	})
}

// Fee returns the fee for a transfer of the given amount.
func (s *FeeSchedule) Fee(amount Amount) (Amount, error) {
	if amount <= 0 {
		return 0, apperror.ErrInvalidAmount()
	}
	for _, b := range s.bands {
		if amount >= b.Min && (b.Unbounded() || amount <= b.Max) {
			return b.Fee, nil
		}
	}
	// Unreachable with a validated schedule.
	return 0, apperror.ErrInvalidAmount()
}

// Bands returns a copy of the band table.
func (s *FeeSchedule) Bands() []FeeBand {
	out := make([]FeeBand, len(s.bands))
	copy(out, s.bands)
	return out
}
