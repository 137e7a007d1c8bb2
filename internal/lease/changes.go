package lease

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lease-service/internal/model"
)

// Values treated as "not set" when diffing lease attributes. Legacy rows
// carry empty strings, literal nulls, zero numerics and the zero-date
// sentinel interchangeably; none of them should produce a change line.
var nullTokens = map[string]struct{}{
	"":           {},
	"null":       {},
	"NULL":       {},
	"0":          {},
	"0.00":       {},
	"0000-00-00": {},
}

// ChangeLog diffs the persisted lease against the proposed values and
// returns one human-readable line per changed field, in a fixed order.
// Numeric fields compare by magnitude and render with two decimals;
// everything else compares as exact strings.
func ChangeLog(old, next *model.Lease) []string {
	if old == nil {
		return nil
	}

	var changes []string
	detectChange("valuation_amount", old.ValuationAmount.String(), next.ValuationAmount.String(), &changes)
	detectChange("valuation_date", fmtDate(old.ValuationDate), fmtDate(next.ValuationDate), &changes)
	detectChange("value_date", fmtDate(old.ValueDate), fmtDate(next.ValueDate), &changes)
	detectChange("approved_date", fmtDate(old.ApprovedDate), fmtDate(next.ApprovedDate), &changes)
	detectChange("annual_rent_percentage", fmtFloat(old.AnnualRentPercentage), fmtFloat(next.AnnualRentPercentage), &changes)
	detectChange("revision_period", strconv.Itoa(old.RevisionPeriod), strconv.Itoa(next.RevisionPeriod), &changes)
	detectChange("revision_percentage", fmtFloat(old.RevisionPercentage), fmtFloat(next.RevisionPercentage), &changes)
	detectChange("start_date", fmtRequiredDate(old.StartDate), fmtRequiredDate(next.StartDate), &changes)
	detectChange("end_date", fmtDate(old.EndDate), fmtDate(next.EndDate), &changes)
	detectChange("duration_years", strconv.Itoa(old.DurationYears), strconv.Itoa(next.DurationYears), &changes)
	detectChange("premium", old.Premium.String(), next.Premium.String(), &changes)
	detectChange("lease_number", old.LeaseNumber, next.LeaseNumber, &changes)
	detectChange("file_number", old.FileNumber, next.FileNumber, &changes)
	detectChange("first_lease", fmtBool(old.FirstLease), fmtBool(next.FirstLease), &changes)
	detectChange("last_lease_annual_value", old.LastLeaseAnnualValue.String(), next.LastLeaseAnnualValue.String(), &changes)

	return changes
}

// MaterialChange reports whether the edit reshapes the schedule and so
// requires a rebuild: amounts compare at two decimals, percentages at
// four. This predicate is deliberately narrower than the change log.
func MaterialChange(old, next *model.Lease) bool {
	if old == nil {
		return false
	}

	return !old.ValuationAmount.Round(2).Equal(next.ValuationAmount.Round(2)) ||
		!old.StartDate.Equal(next.StartDate) ||
		round4(old.AnnualRentPercentage) != round4(next.AnnualRentPercentage) ||
		old.RevisionPeriod != next.RevisionPeriod ||
		round4(old.RevisionPercentage) != round4(next.RevisionPercentage) ||
		old.DurationYears != next.DurationYears
}

func detectChange(label, oldValue, newValue string, changes *[]string) {
	o := normalizeValue(oldValue)
	n := normalizeValue(newValue)

	if o == "null" && n == "null" {
		return
	}

	of, oNum := parseNumeric(o)
	nf, nNum := parseNumeric(n)
	if oNum && nNum {
		if of == nf {
			return
		}
		*changes = append(*changes, fmt.Sprintf("%s: %.2f > %.2f", label, of, nf))
		return
	}

	if o != n {
		*changes = append(*changes, fmt.Sprintf("%s: %s > %s", label, o, n))
	}
}

func normalizeValue(v string) string {
	v = strings.TrimSpace(v)
	if _, ok := nullTokens[v]; ok {
		return "null"
	}
	return v
}

func parseNumeric(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

func fmtDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtRequiredDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fmtBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
