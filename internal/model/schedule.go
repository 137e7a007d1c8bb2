package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Schedule entry status values.
const (
	ScheduleStatusPending = "pending"
)

// ScheduleEntry is one contract year of a lease's payment plan. Entries
// are created in bulk by the schedule generator and always replaced as a
// whole set; a single entry is never edited in isolation.
type ScheduleEntry struct {
	ID           uint `json:"id" gorm:"primarykey"`
	LeaseID      uint `json:"lease_id" gorm:"index;not null"`
	ScheduleYear int  `json:"schedule_year"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	DueDate   time.Time `json:"due_date"`

	// BaseAmount is the original initial rent, identical on every row.
	// AnnualAmount is the rent owed for this year after any revisions
	// applied up to and including this year.
	BaseAmount   decimal.Decimal `json:"base_amount" gorm:"type:decimal(20,2);default:0"`
	Premium      decimal.Decimal `json:"premium" gorm:"type:decimal(20,2);default:0"`
	AnnualAmount decimal.Decimal `json:"annual_amount" gorm:"type:decimal(20,2);default:0"`

	RevisionNumber int  `json:"revision_number"`
	IsRevisionYear bool `json:"is_revision_year"`

	Penalty       decimal.Decimal `json:"penalty" gorm:"type:decimal(20,2);default:0"`
	PaidRent      decimal.Decimal `json:"paid_rent" gorm:"type:decimal(20,2);default:0"`
	PenaltyPaid   decimal.Decimal `json:"penalty_paid" gorm:"type:decimal(20,2);default:0"`
	PremiumPaid   decimal.Decimal `json:"premium_paid" gorm:"type:decimal(20,2);default:0"`
	TotalPaid     decimal.Decimal `json:"total_paid" gorm:"type:decimal(20,2);default:0"`
	DiscountApply decimal.Decimal `json:"discount_apply" gorm:"type:decimal(20,2);default:0"`

	Status    string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (ScheduleEntry) TableName() string {
	return "lease_schedules"
}
