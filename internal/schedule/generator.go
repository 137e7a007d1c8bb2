// Package schedule derives the year-by-year payment plan for a lease from
// its economic terms. Generation is pure: it returns the ordered entries
// and never touches storage.
package schedule

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"lease-service/internal/model"
)

// Cutoff is the regime boundary. Leases starting before it follow the old
// revision law (every 5 years, +50%) until the law change; from then on
// the lease's own revision terms apply.
var Cutoff = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Revision terms fixed by the pre-cutoff law.
const (
	preRevisionPeriodYears = 5
	preRevisionFactor      = 1.50
)

// ErrInvalidStartDate is returned when the lease start date is missing.
var ErrInvalidStartDate = errors.New("schedule: invalid start date")

// Params carries everything the generator needs for one lease.
type Params struct {
	LeaseID             uint
	InitialRent         decimal.Decimal
	Premium             decimal.Decimal
	RevisionPeriodYears int
	RevisionPercent     float64
	StartDate           time.Time
	DurationYears       int
}

// Generate produces one ScheduleEntry per contract year, index 0 through
// DurationYears-1. Year N runs from StartDate+N years to the day before
// StartDate+N+1 years; rent is due March 31 of the year the entry starts.
//
// Rent revisions compound a running amount:
//   - a lease starting before Cutoff with a positive revision period gets
//     its first revision 5 years in at +50%, and keeps that cadence while
//     the next computed revision date still falls before Cutoff;
//   - once the next revision date would land on or after Cutoff, the
//     lease's own period and percentage take over for the rest of the
//     schedule (a period of zero ends revisions entirely);
//   - leases starting on/after Cutoff use their own terms from the start.
//
// The one-time premium is attached to year 0 only, and only when the
// lease starts before Cutoff. A non-positive duration yields no entries.
func Generate(p Params) ([]model.ScheduleEntry, error) {
	if p.StartDate.IsZero() {
		return nil, ErrInvalidStartDate
	}

	if p.DurationYears <= 0 {
		return []model.ScheduleEntry{}, nil
	}

	preRegime := p.StartDate.Before(Cutoff) && p.RevisionPeriodYears > 0

	postPeriod := 0
	if p.RevisionPeriodYears > 0 {
		postPeriod = p.RevisionPeriodYears
	}
	postFactor := decimal.NewFromFloat(1 + p.RevisionPercent/100.0)

	var nextRevision *time.Time
	switch {
	case preRegime:
		t := p.StartDate.AddDate(preRevisionPeriodYears, 0, 0)
		nextRevision = &t
	case postPeriod > 0:
		t := p.StartDate.AddDate(postPeriod, 0, 0)
		nextRevision = &t
	}

	// currentRent accumulates compounding unrounded; each emitted entry
	// carries the cents-rounded value.
	currentRent := p.InitialRent
	revisionNumber := 0

	entries := make([]model.ScheduleEntry, 0, p.DurationYears)
	for year := 0; year < p.DurationYears; year++ {
		yearStart := p.StartDate.AddDate(year, 0, 0)
		yearEnd := yearStart.AddDate(1, 0, -1)
		dueDate := time.Date(yearStart.Year(), time.March, 31, 0, 0, 0, 0, yearStart.Location())

		isRevisionYear := false
		if nextRevision != nil && !yearStart.Before(*nextRevision) {
			isRevisionYear = true
			revisionNumber++

			if preRegime {
				currentRent = currentRent.Mul(decimal.NewFromFloat(preRevisionFactor))

				candidate := nextRevision.AddDate(preRevisionPeriodYears, 0, 0)
				if candidate.Before(Cutoff) {
					nextRevision = &candidate
				} else {
					// Law change: the lease's own terms govern from here.
					preRegime = false
					nextRevision = advance(*nextRevision, postPeriod)
				}
			} else {
				if p.RevisionPercent > 0 {
					currentRent = currentRent.Mul(postFactor)
				}
				nextRevision = advance(*nextRevision, postPeriod)
			}
		}

		premium := decimal.Zero
		if year == 0 && p.StartDate.Before(Cutoff) {
			premium = p.Premium.Round(2)
		}

		entries = append(entries, model.ScheduleEntry{
			LeaseID:        p.LeaseID,
			ScheduleYear:   yearStart.Year(),
			StartDate:      yearStart,
			EndDate:        yearEnd,
			DueDate:        dueDate,
			BaseAmount:     p.InitialRent.Round(2),
			Premium:        premium,
			AnnualAmount:   currentRent.Round(2),
			RevisionNumber: revisionNumber,
			IsRevisionYear: isRevisionYear,
			Status:         model.ScheduleStatusPending,
		})
	}

	return entries, nil
}

func advance(from time.Time, periodYears int) *time.Time {
	if periodYears <= 0 {
		return nil
	}
	t := from.AddDate(periodYears, 0, 0)
	return &t
}
