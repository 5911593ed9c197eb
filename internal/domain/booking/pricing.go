package booking

import "github.com/driveline/service-rental/internal/domain/shared"

// PricingStrategy defines the interface for calculating rental prices.
type PricingStrategy interface {
	// Quote returns the total price in cents for renting a car at the given
	// daily rate over the given period.
	Quote(dailyRateCents int64, period DateRange) (int64, error)
}

// DailyRatePricing implements the standard pricing rule: daily rate times
// the inclusive day count of the period. A same-day booking costs one full
// day.
type DailyRatePricing struct{}

// NewDailyRatePricing creates a new DailyRatePricing.
func NewDailyRatePricing() *DailyRatePricing {
	return &DailyRatePricing{}
}

// Quote computes the total price in cents. The period carries the range
// invariant (end >= start); a negative rate is rejected. No side effects.
func (p *DailyRatePricing) Quote(dailyRateCents int64, period DateRange) (int64, error) {
	if dailyRateCents < 0 {
		return 0, shared.NewValidationError("daily rate cannot be negative")
	}
	return dailyRateCents * period.Days(), nil
}
