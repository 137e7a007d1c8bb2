// Package allocation provides the default payment allocator: a
// deterministic waterfall that applies one payment across a lease's
// schedule entries in chronological order, paying rent, then penalty,
// then premium on each entry before moving to the next.
package allocation

import (
	"time"

	"github.com/shopspring/decimal"

	"lease-service/internal/lease"
	"lease-service/internal/model"
)

// WaterfallAllocator implements lease.Allocator.
type WaterfallAllocator struct{}

// NewWaterfallAllocator returns the default allocator.
func NewWaterfallAllocator() *WaterfallAllocator {
	return &WaterfallAllocator{}
}

// Allocate spreads amount across the schedule entries. The input state is
// not mutated; the returned Schedules carry the updated paid totals and
// must be used for the next call in a replay fold.
//
// An early-payment discount applies once per entry: when the payment lands
// on or before the entry's due date, the outstanding rent is reduced by
// discountRate percent before the waterfall draws on it. Whatever the
// payment cannot absorb is reported as Remaining.
func (a *WaterfallAllocator) Allocate(schedules []*model.ScheduleEntry, paymentDate time.Time, amount decimal.Decimal, discountRate float64) (*lease.AllocationResult, error) {
	state := cloneEntries(schedules)

	res := &lease.AllocationResult{
		Remaining: amount,
		Schedules: state,
	}

	for _, entry := range state {
		if !res.Remaining.IsPositive() {
			break
		}

		// Entries in the future of the payment date are not yet owed.
		if entry.StartDate.After(paymentDate) {
			break
		}

		rentOwed := entry.AnnualAmount.Sub(entry.PaidRent).Sub(entry.DiscountApply)
		penaltyOwed := entry.Penalty.Sub(entry.PenaltyPaid)
		premiumOwed := entry.Premium.Sub(entry.PremiumPaid)

		var discount decimal.Decimal
		if discountRate > 0 && rentOwed.IsPositive() && !paymentDate.After(entry.DueDate) {
			discount = rentOwed.Mul(decimal.NewFromFloat(discountRate)).Div(decimal.NewFromInt(100)).Round(2)
			rentOwed = rentOwed.Sub(discount)
		}

		rent := draw(&res.Remaining, rentOwed)
		penalty := draw(&res.Remaining, penaltyOwed)
		premium := draw(&res.Remaining, premiumOwed)

		total := rent.Add(penalty).Add(premium)
		if !total.IsPositive() && !discount.IsPositive() {
			continue
		}
		if !rent.IsPositive() {
			// Discount only counts when rent was actually drawn on.
			discount = decimal.Zero
		}

		var currentYear decimal.Decimal
		if !paymentDate.Before(entry.StartDate) && !paymentDate.After(entry.EndDate) {
			currentYear = total
		}

		entry.PaidRent = entry.PaidRent.Add(rent)
		entry.PenaltyPaid = entry.PenaltyPaid.Add(penalty)
		entry.PremiumPaid = entry.PremiumPaid.Add(premium)
		entry.TotalPaid = entry.TotalPaid.Add(total)
		entry.DiscountApply = entry.DiscountApply.Add(discount)

		res.Allocations = append(res.Allocations, lease.EntryAllocation{
			ScheduleID:         entry.ID,
			Rent:               rent,
			Penalty:            penalty,
			Premium:            premium,
			Discount:           discount,
			CurrentYearPayment: currentYear,
			TotalPaid:          total,
		})

		res.Totals.Rent = res.Totals.Rent.Add(rent)
		res.Totals.Penalty = res.Totals.Penalty.Add(penalty)
		res.Totals.Premium = res.Totals.Premium.Add(premium)
		res.Totals.Discount = res.Totals.Discount.Add(discount)
		res.Totals.CurrentYearPayment = res.Totals.CurrentYearPayment.Add(currentYear)

		res.CurrentScheduleID = entry.ID
	}

	return res, nil
}

// draw takes up to owed from the remaining pool and returns the amount
// taken.
func draw(remaining *decimal.Decimal, owed decimal.Decimal) decimal.Decimal {
	if !owed.IsPositive() || !remaining.IsPositive() {
		return decimal.Zero
	}
	taken := decimal.Min(*remaining, owed)
	*remaining = remaining.Sub(taken)
	return taken
}

func cloneEntries(entries []*model.ScheduleEntry) []*model.ScheduleEntry {
	out := make([]*model.ScheduleEntry, len(entries))
	for i, e := range entries {
		c := *e
		out[i] = &c
	}
	return out
}
