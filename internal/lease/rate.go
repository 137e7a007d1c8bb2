package lease

import (
	"context"

	"github.com/shopspring/decimal"
)

// ResolveAnnualPercent picks the effective annual rent percentage for a
// lease type and valuation. The economy tier applies when the valuation
// is positive and sits at or below the configured ceiling; otherwise the
// base percentage wins if configured, and the caller's fallback stands
// when the lease type is unknown or carries no usable rates.
func (s *Service) ResolveAnnualPercent(ctx context.Context, leaseTypeID uint, valuation decimal.Decimal, fallback float64) (float64, error) {
	if leaseTypeID == 0 {
		return fallback, nil
	}

	lt, err := s.store.LeaseTypes().FindByID(ctx, leaseTypeID)
	if err != nil {
		return 0, err
	}
	if lt == nil {
		return fallback, nil
	}

	if valuation.IsPositive() && lt.EconomyRate > 0 && lt.EconomyValuation.IsPositive() &&
		valuation.LessThanOrEqual(lt.EconomyValuation) {
		return lt.EconomyRate, nil
	}

	if lt.BaseRentPercent > 0 {
		return lt.BaseRentPercent, nil
	}
	return fallback, nil
}

// premiumTimes looks up the lease type's one-time premium multiplier.
// Unknown lease types multiply by zero, which zeroes the premium.
func (s *Service) premiumTimes(ctx context.Context, leaseTypeID uint) (float64, error) {
	if leaseTypeID == 0 {
		return 0, nil
	}
	lt, err := s.store.LeaseTypes().FindByID(ctx, leaseTypeID)
	if err != nil {
		return 0, err
	}
	if lt == nil {
		return 0, nil
	}
	return lt.PremiumTimes, nil
}
