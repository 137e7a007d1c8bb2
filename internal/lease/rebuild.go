package lease

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"lease-service/internal/model"
	"lease-service/internal/schedule"
)

// Outcome reports what the rebuild coordinator did to a lease's
// schedules.
type Outcome int

const (
	// Unchanged: payments exist and nothing material changed.
	Unchanged Outcome = iota
	// RegeneratedEmpty: schedules were regenerated; no payments existed,
	// so no replay was needed.
	RegeneratedEmpty
	// Rebuilt: schedules were regenerated and every active payment was
	// replayed against the new set.
	Rebuilt
)

// String renders the outcome as a short machine label.
func (o Outcome) String() string {
	switch o {
	case Rebuilt:
		return "rebuilt"
	case RegeneratedEmpty:
		return "regenerated"
	default:
		return "unchanged"
	}
}

// Note renders the outcome as the caller-facing suffix of the update
// message.
func (o Outcome) Note() string {
	switch o {
	case Rebuilt:
		return " Schedules regenerated and payments reprocessed (because lease values changed)."
	case RegeneratedEmpty:
		return " Schedules regenerated (no payments exist)."
	default:
		return " Payments exist. Schedules NOT regenerated."
	}
}

// replayTolerance bounds acceptable rounding drift when reattributing a
// payment: anything beyond a cent is an inconsistency.
var replayTolerance = decimal.NewFromFloat(0.01)

// reconcile decides and executes the schedule handling for an updated
// lease. Material change always takes the full rebuild path, even with
// zero payments: one authoritative code path for correctness-critical
// edits. It must run inside the caller's transaction.
func (s *Service) reconcile(ctx context.Context, tx Store, l *model.Lease, initialRent, premium decimal.Decimal, activePayments int64, material bool) (Outcome, error) {
	switch {
	case material:
		if err := s.rebuildAndReplay(ctx, tx, l, initialRent, premium); err != nil {
			return Unchanged, err
		}
		return Rebuilt, nil

	case activePayments == 0:
		if err := s.regenerate(ctx, tx, l, initialRent, premium); err != nil {
			return Unchanged, err
		}
		return RegeneratedEmpty, nil

	default:
		return Unchanged, nil
	}
}

// regenerate replaces the lease's schedule set with a freshly generated
// one.
func (s *Service) regenerate(ctx context.Context, tx Store, l *model.Lease, initialRent, premium decimal.Decimal) error {
	if err := tx.Schedules().DeleteByLease(ctx, l.ID); err != nil {
		return fmt.Errorf("deleting schedules: %w", err)
	}

	entries, err := schedule.Generate(schedule.Params{
		LeaseID:             l.ID,
		InitialRent:         initialRent,
		Premium:             premium,
		RevisionPeriodYears: l.RevisionPeriod,
		RevisionPercent:     l.RevisionPercentage,
		StartDate:           l.StartDate,
		DurationYears:       l.DurationYears,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := tx.Schedules().CreateBatch(ctx, entries); err != nil {
		return fmt.Errorf("creating schedules: %w", err)
	}
	return nil
}

// rebuildAndReplay regenerates the schedule set and replays every active
// payment against it, oldest first. Replay is a fold: each allocation
// starts from the schedule state the previous one produced. Any
// unallocated remainder or split mismatch beyond a cent aborts the whole
// unit of work.
func (s *Service) rebuildAndReplay(ctx context.Context, tx Store, l *model.Lease, initialRent, premium decimal.Decimal) error {
	payments, err := tx.Payments().ListActive(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("loading payments: %w", err)
	}

	if err := s.regenerate(ctx, tx, l, initialRent, premium); err != nil {
		return err
	}

	discountRate, err := tx.LeaseTypes().DiscountRateFor(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("resolving discount rate: %w", err)
	}

	state, err := tx.Schedules().ListByLease(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("loading schedules: %w", err)
	}

	for _, p := range payments {
		if !p.Amount.IsPositive() {
			continue
		}

		res, err := s.allocator.Allocate(state, p.PaymentDate, p.Amount, discountRate)
		if err != nil {
			return fmt.Errorf("allocating payment %d: %w", p.ID, err)
		}

		if res.Remaining.GreaterThan(replayTolerance) {
			return fmt.Errorf("%w: payment %d left %s unallocated", ErrReplayInconsistency, p.ID, res.Remaining)
		}

		if len(res.Allocations) == 0 {
			state = res.Schedules
			continue
		}

		applied := res.Totals.Rent.Add(res.Totals.Penalty).Add(res.Totals.Premium)
		if applied.Sub(p.Amount).Abs().GreaterThan(replayTolerance) {
			return fmt.Errorf("%w: payment %d applied %s of %s", ErrReplayInconsistency, p.ID, applied, p.Amount)
		}

		p.ScheduleID = res.CurrentScheduleID
		p.RentPaid = res.Totals.Rent
		p.PenaltyPaid = res.Totals.Penalty
		p.PremiumPaid = res.Totals.Premium
		p.DiscountApply = res.Totals.Discount
		p.CurrentYearPayment = res.Totals.CurrentYearPayment
		p.PaymentType = "mixed"
		if err := tx.Payments().UpdateAllocation(ctx, p); err != nil {
			return fmt.Errorf("updating payment %d: %w", p.ID, err)
		}

		details := make([]model.PaymentDetail, 0, len(res.Allocations))
		for _, alloc := range res.Allocations {
			if err := tx.Schedules().AddPaidAmounts(ctx, alloc); err != nil {
				return fmt.Errorf("accumulating schedule %d: %w", alloc.ScheduleID, err)
			}

			if alloc.Rent.IsPositive() || alloc.Penalty.IsPositive() ||
				alloc.Premium.IsPositive() || alloc.Discount.IsPositive() {
				details = append(details, model.PaymentDetail{
					PaymentID:          p.ID,
					ScheduleID:         alloc.ScheduleID,
					RentPaid:           alloc.Rent,
					PenaltyPaid:        alloc.Penalty,
					PremiumPaid:        alloc.Premium,
					DiscountApply:      alloc.Discount,
					CurrentYearPayment: alloc.CurrentYearPayment,
					Status:             model.PaymentStatusActive,
				})
			}
		}

		if err := tx.Payments().ReplaceDetails(ctx, p.ID, details); err != nil {
			return fmt.Errorf("rewriting details for payment %d: %w", p.ID, err)
		}

		state = res.Schedules
	}

	return nil
}
