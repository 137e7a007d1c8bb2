package lease

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lease-service/internal/model"
)

// Operator identifies who is performing a mutation and for which
// location. It is resolved once at the boundary (from token claims) and
// passed explicitly into every use case call.
type Operator struct {
	UserID     uint
	LocationID uint
}

// Store bundles the repositories behind one persistence boundary. InTx
// runs fn against a store bound to a single database transaction; any
// error from fn rolls the whole unit of work back.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	Leases() LeaseRepository
	LeaseTypes() LeaseTypeRepository
	Schedules() ScheduleRepository
	Payments() PaymentRepository
}

// LeaseRepository is row-level CRUD for leases.
type LeaseRepository interface {
	Create(ctx context.Context, l *model.Lease) error
	FindByID(ctx context.Context, id uint) (*model.Lease, error)
	Update(ctx context.Context, l *model.Lease) error
}

// LeaseTypeRepository reads the per-classification rate card.
type LeaseTypeRepository interface {
	// FindByID returns (nil, nil) when the lease type does not exist;
	// callers fall back to their own defaults in that case.
	FindByID(ctx context.Context, id uint) (*model.LeaseType, error)

	// DiscountRateFor resolves the early-payment discount rate for a
	// lease via its lease type.
	DiscountRateFor(ctx context.Context, leaseID uint) (float64, error)
}

// ScheduleRepository manages a lease's schedule entries as a set.
type ScheduleRepository interface {
	DeleteByLease(ctx context.Context, leaseID uint) error
	CreateBatch(ctx context.Context, entries []model.ScheduleEntry) error

	// ListByLease returns the entries ordered by start date.
	ListByLease(ctx context.Context, leaseID uint) ([]*model.ScheduleEntry, error)

	// AddPaidAmounts accumulates one allocation's contribution onto the
	// entry's running paid totals.
	AddPaidAmounts(ctx context.Context, alloc EntryAllocation) error

	// ZeroPenalties clears accrued and paid penalty on every entry of the
	// lease (used when the valuation date is removed).
	ZeroPenalties(ctx context.Context, leaseID uint) error
}

// PaymentRepository reads and rewrites recorded payments during replay.
type PaymentRepository interface {
	CountActive(ctx context.Context, leaseID uint) (int64, error)

	// ListActive returns active payments ordered by payment date, then by
	// id as the insertion-order tie-break.
	ListActive(ctx context.Context, leaseID uint) ([]*model.Payment, error)

	UpdateAllocation(ctx context.Context, p *model.Payment) error

	// ReplaceDetails deletes the payment's detail rows and inserts the
	// given set in order.
	ReplaceDetails(ctx context.Context, paymentID uint, details []model.PaymentDetail) error
}

// EntryAllocation is what one payment contributed to one schedule entry.
type EntryAllocation struct {
	ScheduleID         uint
	Rent               decimal.Decimal
	Penalty            decimal.Decimal
	Premium            decimal.Decimal
	Discount           decimal.Decimal
	CurrentYearPayment decimal.Decimal
	TotalPaid          decimal.Decimal
}

// AllocationTotals sums a payment's allocation across all entries.
type AllocationTotals struct {
	Rent               decimal.Decimal
	Penalty            decimal.Decimal
	Premium            decimal.Decimal
	Discount           decimal.Decimal
	CurrentYearPayment decimal.Decimal
}

// AllocationResult is the allocator's answer for a single payment.
// Schedules is the updated in-memory schedule state and must be fed into
// the next Allocate call: replay is a fold, not independent calls.
type AllocationResult struct {
	Allocations       []EntryAllocation
	Totals            AllocationTotals
	CurrentScheduleID uint
	Remaining         decimal.Decimal
	Schedules         []*model.ScheduleEntry
}

// Allocator applies one payment across schedule entries in a
// deterministic waterfall (chronological entries; rent, then penalty,
// then premium) and reports any unapplied remainder.
type Allocator interface {
	Allocate(schedules []*model.ScheduleEntry, paymentDate time.Time, amount decimal.Decimal, discountRate float64) (*AllocationResult, error)
}

// PenaltyRecalculator recomputes and persists penalty accrual for a
// lease. Invocations are best-effort: the caller logs and swallows any
// failure.
type PenaltyRecalculator interface {
	Recompute(ctx context.Context, leaseID uint) error
}

// ChangeLogEntry is one audit record handed to the change log sink.
type ChangeLogEntry struct {
	Action        string
	Message       string
	BeneficiaryID uint
	UserID        uint
}

// ChangeLogSink receives audit records. Failures must never fail the
// parent operation.
type ChangeLogSink interface {
	Log(ctx context.Context, entry ChangeLogEntry) error
}
