package lease

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-service/internal/model"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func baseLease() *model.Lease {
	return &model.Lease{
		LeaseNumber:          "LEASE-100",
		FileNumber:           "FILE-100",
		ValuationAmount:      decimal.NewFromInt(500000),
		AnnualRentPercentage: 6,
		RevisionPeriod:       3,
		RevisionPercentage:   10,
		StartDate:            time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
		DurationYears:        30,
	}
}

func TestChangeLogNilOld(t *testing.T) {
	assert.Nil(t, ChangeLog(nil, baseLease()))
}

func TestChangeLogNoChanges(t *testing.T) {
	old := baseLease()
	next := baseLease()
	assert.Empty(t, ChangeLog(old, next))
}

func TestChangeLogNullEquivalence(t *testing.T) {
	// Unset dates, zero amounts and the legacy zero-date sentinel are all
	// the same "not set" and must not produce a change line.
	old := baseLease()
	next := baseLease()

	old.ValuationDate = nil
	next.ValuationDate = &time.Time{}

	old.Premium = decimal.Zero
	next.Premium = decimal.RequireFromString("0.00")

	old.LastLeaseAnnualValue = decimal.Zero
	next.LastLeaseAnnualValue = decimal.RequireFromString("0")

	assert.Empty(t, ChangeLog(old, next))
}

func TestChangeLogNumericFormatting(t *testing.T) {
	old := baseLease()
	next := baseLease()
	next.ValuationAmount = decimal.RequireFromString("750000.5")
	next.AnnualRentPercentage = 7.25

	changes := ChangeLog(old, next)
	require.Len(t, changes, 2)
	assert.Equal(t, "valuation_amount: 500000.00 > 750000.50", changes[0])
	assert.Equal(t, "annual_rent_percentage: 6.00 > 7.25", changes[1])
}

func TestChangeLogStringAndDateFields(t *testing.T) {
	old := baseLease()
	next := baseLease()
	next.LeaseNumber = "LEASE-200"
	next.ValuationDate = datePtr(2024, time.May, 1)
	next.FirstLease = true

	changes := ChangeLog(old, next)
	require.Len(t, changes, 3)
	// Fixed field order: dates before identifiers before flags.
	assert.Equal(t, "valuation_date: null > 2024-05-01", changes[0])
	assert.Equal(t, "lease_number: LEASE-100 > LEASE-200", changes[1])
	// "0" is a null token, so the flag flip renders as a string change.
	assert.Equal(t, "first_lease: null > 1", changes[2])
}

func TestChangeLogIgnoresTrailingZeroDifferences(t *testing.T) {
	old := baseLease()
	next := baseLease()
	old.ValuationAmount = decimal.RequireFromString("500000")
	next.ValuationAmount = decimal.RequireFromString("500000.00")
	assert.Empty(t, ChangeLog(old, next))
}

func TestMaterialChange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Lease)
		want   bool
	}{
		{
			name:   "identical",
			mutate: func(l *model.Lease) {},
			want:   false,
		},
		{
			name:   "valuation amount",
			mutate: func(l *model.Lease) { l.ValuationAmount = decimal.NewFromInt(600000) },
			want:   true,
		},
		{
			name: "valuation amount below half a cent",
			mutate: func(l *model.Lease) {
				l.ValuationAmount = l.ValuationAmount.Add(decimal.RequireFromString("0.001"))
			},
			want: false,
		},
		{
			name:   "start date",
			mutate: func(l *model.Lease) { l.StartDate = l.StartDate.AddDate(0, 0, 1) },
			want:   true,
		},
		{
			name:   "annual rent percentage",
			mutate: func(l *model.Lease) { l.AnnualRentPercentage = 6.5 },
			want:   true,
		},
		{
			name:   "revision period",
			mutate: func(l *model.Lease) { l.RevisionPeriod = 5 },
			want:   true,
		},
		{
			name:   "revision percentage",
			mutate: func(l *model.Lease) { l.RevisionPercentage = 12 },
			want:   true,
		},
		{
			name:   "duration",
			mutate: func(l *model.Lease) { l.DurationYears = 25 },
			want:   true,
		},
		{
			name: "percentage noise below a basis point",
			mutate: func(l *model.Lease) {
				l.AnnualRentPercentage += 0.000001
			},
			want: false,
		},
		{
			name: "cosmetic fields only",
			mutate: func(l *model.Lease) {
				l.LeaseNumber = "LEASE-999"
				l.FileNumber = "FILE-999"
				l.NameOfTheProject = "renamed"
				l.Premium = decimal.NewFromInt(42)
				l.EndDate = datePtr(2052, time.May, 31)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := baseLease()
			next := baseLease()
			tt.mutate(next)
			assert.Equal(t, tt.want, MaterialChange(old, next))
		})
	}
}

func TestMaterialChangeNilOld(t *testing.T) {
	assert.False(t, MaterialChange(nil, baseLease()))
}

func TestDetectChangeSkipsEqualNumbers(t *testing.T) {
	var changes []string
	detectChange("x", "10", "10.0", &changes)
	detectChange("y", "abc", "abc", &changes)
	assert.Empty(t, changes)
}
