// Package penalty implements the default penalty recalculator. Penalty
// accrual is recomputed for a whole lease at a time and persisted on its
// schedule entries; callers treat the operation as best-effort.
package penalty

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lease-service/internal/model"
)

// Calculator recomputes penalty accrual for overdue schedule entries.
type Calculator struct {
	db *gorm.DB

	// ratePercent is charged on outstanding rent per whole year overdue.
	ratePercent float64

	// now is swappable for tests.
	now func() time.Time
}

// NewCalculator wires a calculator against the database.
func NewCalculator(db *gorm.DB, ratePercent float64) *Calculator {
	return &Calculator{
		db:          db,
		ratePercent: ratePercent,
		now:         time.Now,
	}
}

// Recompute recalculates penalty for every entry of the lease. An entry
// past its due date with rent still outstanding accrues
// outstanding × rate% per whole year overdue (minimum one); everything
// else resets to zero.
func (c *Calculator) Recompute(ctx context.Context, leaseID uint) error {
	var entries []*model.ScheduleEntry
	if err := c.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("start_date ASC").
		Find(&entries).Error; err != nil {
		return fmt.Errorf("loading schedules: %w", err)
	}

	today := c.now()
	rate := decimal.NewFromFloat(c.ratePercent)

	for _, entry := range entries {
		accrued := decimal.Zero

		outstanding := entry.AnnualAmount.Sub(entry.PaidRent).Sub(entry.DiscountApply)
		if outstanding.IsPositive() && today.After(entry.DueDate) {
			years := yearsOverdue(entry.DueDate, today)
			accrued = outstanding.
				Mul(rate).
				Div(decimal.NewFromInt(100)).
				Mul(decimal.NewFromInt(int64(years))).
				Round(2)
		}

		if accrued.Equal(entry.Penalty) {
			continue
		}
		if err := c.db.WithContext(ctx).
			Model(&model.ScheduleEntry{}).
			Where("id = ?", entry.ID).
			Update("penalty", accrued).Error; err != nil {
			return fmt.Errorf("updating penalty for schedule %d: %w", entry.ID, err)
		}
	}

	return nil
}

func yearsOverdue(due, today time.Time) int {
	years := 1
	for due.AddDate(years, 0, 0).Before(today) {
		years++
	}
	return years
}
