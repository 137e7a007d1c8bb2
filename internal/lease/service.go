// Package lease holds the lease use cases: create, update, change
// detection and the schedule rebuild/payment replay coordinator. The
// package owns the business rules; persistence, allocation and penalty
// accrual sit behind ports.
package lease

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lease-service/internal/model"
	"lease-service/internal/schedule"
)

// Service implements the lease use cases over the injected collaborators.
type Service struct {
	store     Store
	allocator Allocator
	penalty   PenaltyRecalculator
	changeLog ChangeLogSink
	log       *zap.Logger
}

// NewService wires a lease service.
func NewService(store Store, allocator Allocator, penalty PenaltyRecalculator, changeLog ChangeLogSink, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		allocator: allocator,
		penalty:   penalty,
		changeLog: changeLog,
		log:       log,
	}
}

// Input carries the caller-supplied lease attributes for create and
// update. Optional dates are nil when not provided.
type Input struct {
	LandID        uint
	BeneficiaryID uint

	ValuationAmount decimal.Decimal
	ValuationDate   *time.Time
	ValueDate       *time.Time
	ApprovedDate    *time.Time

	AnnualRentPercentage float64
	RevisionPeriod       int
	RevisionPercentage   float64

	StartDate     time.Time
	EndDate       *time.Time
	DurationYears int

	LeaseTypeID      uint
	TypeOfProject    string
	NameOfTheProject string
	LeaseNumber      string
	FileNumber       string

	FirstLease           bool
	LastLeaseAnnualValue decimal.Decimal
}

// Create persists a new lease and generates its full schedule in one
// transaction. The caller-supplied annual percentage is authoritative on
// create; the rate card is only consulted on update.
func (s *Service) Create(ctx context.Context, op Operator, in Input) (uint, error) {
	if in.LandID == 0 || in.BeneficiaryID == 0 {
		return 0, fmt.Errorf("%w: missing land or beneficiary", ErrValidation)
	}
	if in.StartDate.IsZero() {
		return 0, fmt.Errorf("%w: missing start date", ErrValidation)
	}

	if in.LeaseNumber == "" {
		in.LeaseNumber = "LEASE-" + time.Now().Format("20060102-150405")
	}
	if in.FileNumber == "" {
		in.FileNumber = in.LeaseNumber
	}
	if in.FirstLease {
		in.LastLeaseAnnualValue = decimal.Zero
	}

	initialRent := annualRent(in.ValuationAmount, in.AnnualRentPercentage)
	premium, err := s.computePremium(ctx, in.LeaseTypeID, initialRent, in.StartDate)
	if err != nil {
		return 0, err
	}

	l := &model.Lease{
		LandID:               in.LandID,
		BeneficiaryID:        in.BeneficiaryID,
		LocationID:           op.LocationID,
		LeaseNumber:          in.LeaseNumber,
		FileNumber:           in.FileNumber,
		ValuationAmount:      in.ValuationAmount,
		ValuationDate:        in.ValuationDate,
		ValueDate:            in.ValueDate,
		ApprovedDate:         in.ApprovedDate,
		Premium:              premium,
		AnnualRentPercentage: in.AnnualRentPercentage,
		RevisionPeriod:       in.RevisionPeriod,
		RevisionPercentage:   in.RevisionPercentage,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		DurationYears:        in.DurationYears,
		LeaseTypeID:          in.LeaseTypeID,
		TypeOfProject:        in.TypeOfProject,
		NameOfTheProject:     in.NameOfTheProject,
		FirstLease:           in.FirstLease,
		LastLeaseAnnualValue: in.LastLeaseAnnualValue,
		Status:               model.LeaseStatusActive,
		CreatedBy:            op.UserID,
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.Leases().Create(ctx, l); err != nil {
			return fmt.Errorf("creating lease: %w", err)
		}

		entries, err := schedule.Generate(schedule.Params{
			LeaseID:             l.ID,
			InitialRent:         initialRent,
			Premium:             premium,
			RevisionPeriodYears: in.RevisionPeriod,
			RevisionPercent:     in.RevisionPercentage,
			StartDate:           in.StartDate,
			DurationYears:       in.DurationYears,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}

		if err := tx.Schedules().CreateBatch(ctx, entries); err != nil {
			return fmt.Errorf("creating schedules: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Penalty accrual needs a valuation date to anchor on.
	if in.ValuationDate != nil && !in.ValuationDate.IsZero() {
		s.recomputePenalty(ctx, l.ID)
	}

	s.audit(ctx, ChangeLogEntry{
		Action:        "Create Lease",
		Message:       fmt.Sprintf("Created lease: %s File No: %s", l.LeaseNumber, l.FileNumber),
		BeneficiaryID: l.BeneficiaryID,
		UserID:        op.UserID,
	})

	return l.ID, nil
}

// Update rewrites the lease row and reconciles its schedules. The lease
// update, penalty zeroing, schedule regeneration and payment replay all
// run in one transaction, so a failed replay leaves the lease exactly as
// it was.
func (s *Service) Update(ctx context.Context, op Operator, leaseID uint, in Input) (Outcome, error) {
	if leaseID == 0 {
		return Unchanged, fmt.Errorf("%w: missing lease id", ErrValidation)
	}

	old, err := s.store.Leases().FindByID(ctx, leaseID)
	if err != nil {
		return Unchanged, err
	}
	if old == nil {
		return Unchanged, fmt.Errorf("%w: lease %d", ErrNotFound, leaseID)
	}

	activePayments, err := s.store.Payments().CountActive(ctx, leaseID)
	if err != nil {
		return Unchanged, err
	}

	// Unlike create, update re-resolves the percentage from the rate card.
	pct, err := s.ResolveAnnualPercent(ctx, in.LeaseTypeID, in.ValuationAmount, in.AnnualRentPercentage)
	if err != nil {
		return Unchanged, err
	}
	in.AnnualRentPercentage = pct

	initialRent := annualRent(in.ValuationAmount, pct)
	premium, err := s.computePremium(ctx, in.LeaseTypeID, initialRent, in.StartDate)
	if err != nil {
		return Unchanged, err
	}

	next := applyUpdate(old, in, premium, op)
	changes := ChangeLog(old, next)
	material := MaterialChange(old, next)

	// Without a valuation date penalties cannot be computed; wipe what was
	// accrued and skip recalculation for this update.
	skipPenalty := in.ValuationDate == nil || in.ValuationDate.IsZero()

	var outcome Outcome
	err = s.store.InTx(ctx, func(tx Store) error {
		if skipPenalty {
			if err := tx.Schedules().ZeroPenalties(ctx, leaseID); err != nil {
				return fmt.Errorf("zeroing penalties: %w", err)
			}
		}

		if err := tx.Leases().Update(ctx, next); err != nil {
			return fmt.Errorf("updating lease: %w", err)
		}

		outcome, err = s.reconcile(ctx, tx, next, initialRent, premium, activePayments, material)
		return err
	})
	if err != nil {
		return Unchanged, err
	}

	if !skipPenalty {
		s.recomputePenalty(ctx, leaseID)
	}

	if len(changes) > 0 {
		s.audit(ctx, ChangeLogEntry{
			Action:        "Lease Updated",
			Message:       fmt.Sprintf("Lease ID=%d | Lease No=%s | Changes: %s", leaseID, next.LeaseNumber, strings.Join(changes, " | ")),
			BeneficiaryID: next.BeneficiaryID,
			UserID:        op.UserID,
		})
	}

	return outcome, nil
}

// Get returns a lease with its ordered schedule entries.
func (s *Service) Get(ctx context.Context, leaseID uint) (*model.Lease, []*model.ScheduleEntry, error) {
	l, err := s.store.Leases().FindByID(ctx, leaseID)
	if err != nil {
		return nil, nil, err
	}
	if l == nil {
		return nil, nil, fmt.Errorf("%w: lease %d", ErrNotFound, leaseID)
	}
	entries, err := s.store.Schedules().ListByLease(ctx, leaseID)
	if err != nil {
		return nil, nil, err
	}
	return l, entries, nil
}

func applyUpdate(old *model.Lease, in Input, premium decimal.Decimal, op Operator) *model.Lease {
	if in.FirstLease {
		in.LastLeaseAnnualValue = decimal.Zero
	}

	next := *old
	next.BeneficiaryID = in.BeneficiaryID
	next.LocationID = op.LocationID
	next.LeaseNumber = in.LeaseNumber
	next.FileNumber = in.FileNumber
	next.ValuationAmount = in.ValuationAmount
	next.ValuationDate = in.ValuationDate
	next.ValueDate = in.ValueDate
	next.ApprovedDate = in.ApprovedDate
	next.Premium = premium
	next.AnnualRentPercentage = in.AnnualRentPercentage
	next.RevisionPeriod = in.RevisionPeriod
	next.RevisionPercentage = in.RevisionPercentage
	next.StartDate = in.StartDate
	next.EndDate = in.EndDate
	next.DurationYears = in.DurationYears
	next.NameOfTheProject = in.NameOfTheProject
	next.FirstLease = in.FirstLease
	next.LastLeaseAnnualValue = in.LastLeaseAnnualValue
	next.UpdatedBy = op.UserID
	return &next
}

func (s *Service) computePremium(ctx context.Context, leaseTypeID uint, initialRent decimal.Decimal, startDate time.Time) (decimal.Decimal, error) {
	if startDate.IsZero() || !startDate.Before(schedule.Cutoff) {
		return decimal.Zero, nil
	}
	times, err := s.premiumTimes(ctx, leaseTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	return initialRent.Mul(decimal.NewFromFloat(times)), nil
}

// recomputePenalty is fire-and-forget: a failed penalty run never fails
// the parent operation.
func (s *Service) recomputePenalty(ctx context.Context, leaseID uint) {
	if s.penalty == nil {
		return
	}
	if err := s.penalty.Recompute(ctx, leaseID); err != nil {
		s.log.Warn("penalty recalculation failed",
			zap.Uint("lease_id", leaseID),
			zap.Error(err))
	}
}

// audit is fire-and-forget like recomputePenalty.
func (s *Service) audit(ctx context.Context, entry ChangeLogEntry) {
	if s.changeLog == nil {
		return
	}
	if err := s.changeLog.Log(ctx, entry); err != nil {
		s.log.Warn("change log write failed",
			zap.String("action", entry.Action),
			zap.Error(err))
	}
}

func annualRent(valuation decimal.Decimal, pct float64) decimal.Decimal {
	return valuation.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
}
