package allocation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-service/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(id uint, year int, annual, penalty, premium int64) *model.ScheduleEntry {
	start := date(year, time.June, 1)
	return &model.ScheduleEntry{
		ID:           id,
		StartDate:    start,
		EndDate:      start.AddDate(1, 0, -1),
		DueDate:      date(year, time.March, 31),
		AnnualAmount: decimal.NewFromInt(annual),
		Penalty:      decimal.NewFromInt(penalty),
		Premium:      decimal.NewFromInt(premium),
	}
}

func TestAllocateRentThenPenaltyThenPremium(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{entry(1, 2022, 1000, 200, 300)}

	// 1350 covers rent, penalty and half of the premium.
	res, err := a.Allocate(state, date(2022, time.July, 1), decimal.NewFromInt(1350), 0)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 1)
	alloc := res.Allocations[0]
	assert.True(t, alloc.Rent.Equal(decimal.NewFromInt(1000)))
	assert.True(t, alloc.Penalty.Equal(decimal.NewFromInt(200)))
	assert.True(t, alloc.Premium.Equal(decimal.NewFromInt(150)))
	assert.True(t, res.Remaining.IsZero())
	assert.Equal(t, uint(1), res.CurrentScheduleID)

	updated := res.Schedules[0]
	assert.True(t, updated.PaidRent.Equal(decimal.NewFromInt(1000)))
	assert.True(t, updated.PenaltyPaid.Equal(decimal.NewFromInt(200)))
	assert.True(t, updated.PremiumPaid.Equal(decimal.NewFromInt(150)))
	assert.True(t, updated.TotalPaid.Equal(decimal.NewFromInt(1350)))
}

func TestAllocateChronologicalOrder(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{
		entry(1, 2022, 1000, 0, 0),
		entry(2, 2023, 1000, 0, 0),
		entry(3, 2024, 1000, 0, 0),
	}

	res, err := a.Allocate(state, date(2023, time.August, 1), decimal.NewFromInt(1500), 0)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 2)
	assert.Equal(t, uint(1), res.Allocations[0].ScheduleID)
	assert.True(t, res.Allocations[0].Rent.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, uint(2), res.Allocations[1].ScheduleID)
	assert.True(t, res.Allocations[1].Rent.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, uint(2), res.CurrentScheduleID)
	assert.True(t, res.Remaining.IsZero())
}

func TestAllocateStopsBeforeFutureEntries(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{
		entry(1, 2022, 1000, 0, 0),
		entry(2, 2023, 1000, 0, 0),
	}

	// The 2023 entry has not started yet; its rent is not owed and the
	// surplus comes back as remainder.
	res, err := a.Allocate(state, date(2022, time.July, 1), decimal.NewFromInt(1500), 0)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 1)
	assert.Equal(t, uint(1), res.Allocations[0].ScheduleID)
	assert.True(t, res.Remaining.Equal(decimal.NewFromInt(500)), "got %s", res.Remaining)
}

func TestAllocateCurrentYearMarker(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{
		entry(1, 2022, 1000, 0, 0),
		entry(2, 2023, 1000, 0, 0),
	}

	res, err := a.Allocate(state, date(2023, time.August, 1), decimal.NewFromInt(1500), 0)
	require.NoError(t, err)

	// Only the allocation on the entry whose year contains the payment
	// date counts as current-year payment.
	require.Len(t, res.Allocations, 2)
	assert.True(t, res.Allocations[0].CurrentYearPayment.IsZero())
	assert.True(t, res.Allocations[1].CurrentYearPayment.Equal(decimal.NewFromInt(500)))
	assert.True(t, res.Totals.CurrentYearPayment.Equal(decimal.NewFromInt(500)))
}

// janEntry starts on January 1, so its March 31 due date falls inside the
// contract year and the early-payment window is reachable.
func janEntry(id uint, year int, annual int64) *model.ScheduleEntry {
	e := entry(id, year, annual, 0, 0)
	e.StartDate = date(year, time.January, 1)
	e.EndDate = date(year, time.December, 31)
	return e
}

func TestAllocateEarlyPaymentDiscount(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{janEntry(1, 2022, 1000)}

	// Paying on the due date earns the 10% discount: only 900 of rent is
	// owed and 100 is recorded as discount.
	res, err := a.Allocate(state, date(2022, time.March, 31), decimal.NewFromInt(900), 10)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 1)
	alloc := res.Allocations[0]
	assert.True(t, alloc.Rent.Equal(decimal.NewFromInt(900)))
	assert.True(t, alloc.Discount.Equal(decimal.NewFromInt(100)))
	assert.True(t, res.Remaining.IsZero())

	updated := res.Schedules[0]
	assert.True(t, updated.DiscountApply.Equal(decimal.NewFromInt(100)))
	// Rent plus discount settles the year in full.
	assert.True(t, updated.AnnualAmount.Sub(updated.PaidRent).Sub(updated.DiscountApply).IsZero())
}

func TestAllocateNoDiscountAfterDueDate(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{janEntry(1, 2022, 1000)}

	res, err := a.Allocate(state, date(2022, time.April, 1), decimal.NewFromInt(1000), 10)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 1)
	assert.True(t, res.Allocations[0].Discount.IsZero())
	assert.True(t, res.Allocations[0].Rent.Equal(decimal.NewFromInt(1000)))
}

func TestAllocateDoesNotMutateInput(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{entry(1, 2022, 1000, 0, 0)}

	_, err := a.Allocate(state, date(2022, time.July, 1), decimal.NewFromInt(400), 0)
	require.NoError(t, err)

	assert.True(t, state[0].PaidRent.IsZero())
	assert.True(t, state[0].TotalPaid.IsZero())
}

func TestAllocateSkipsSettledEntries(t *testing.T) {
	a := NewWaterfallAllocator()
	settled := entry(1, 2022, 1000, 0, 0)
	settled.PaidRent = decimal.NewFromInt(1000)
	state := []*model.ScheduleEntry{settled, entry(2, 2023, 1000, 0, 0)}

	res, err := a.Allocate(state, date(2023, time.July, 1), decimal.NewFromInt(300), 0)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 1)
	assert.Equal(t, uint(2), res.Allocations[0].ScheduleID)
}

func TestAllocateFoldAcrossCalls(t *testing.T) {
	a := NewWaterfallAllocator()
	state := []*model.ScheduleEntry{entry(1, 2022, 1000, 0, 0)}

	first, err := a.Allocate(state, date(2022, time.July, 1), decimal.NewFromInt(600), 0)
	require.NoError(t, err)

	// Feeding the updated state back in continues where the first payment
	// stopped.
	second, err := a.Allocate(first.Schedules, date(2022, time.August, 1), decimal.NewFromInt(600), 0)
	require.NoError(t, err)

	require.Len(t, second.Allocations, 1)
	assert.True(t, second.Allocations[0].Rent.Equal(decimal.NewFromInt(400)))
	assert.True(t, second.Remaining.Equal(decimal.NewFromInt(200)))
	assert.True(t, second.Schedules[0].PaidRent.Equal(decimal.NewFromInt(1000)))
}
