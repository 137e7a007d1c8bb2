package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values.
const (
	PaymentStatusActive = "active"
	PaymentStatusVoid   = "void"
)

// Payment is a recorded payment against a lease. Payments are captured by
// the cashiering flow; this service only rewrites their allocation fields
// when a schedule rebuild replays them.
type Payment struct {
	ID      uint `json:"id" gorm:"primarykey"`
	LeaseID uint `json:"lease_id" gorm:"index;not null"`

	// ScheduleID points at the principal schedule entry the payment was
	// applied to (the last entry the allocator touched).
	ScheduleID uint `json:"schedule_id" gorm:"index"`

	PaymentDate time.Time       `json:"payment_date" gorm:"index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`

	RentPaid           decimal.Decimal `json:"rent_paid" gorm:"type:decimal(20,2);default:0"`
	PenaltyPaid        decimal.Decimal `json:"penalty_paid" gorm:"type:decimal(20,2);default:0"`
	PremiumPaid        decimal.Decimal `json:"premium_paid" gorm:"type:decimal(20,2);default:0"`
	DiscountApply      decimal.Decimal `json:"discount_apply" gorm:"type:decimal(20,2);default:0"`
	CurrentYearPayment decimal.Decimal `json:"current_year_payment" gorm:"type:decimal(20,2);default:0"`

	PaymentType string    `json:"payment_type" gorm:"type:varchar(20)"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'active';index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (Payment) TableName() string {
	return "lease_payments"
}

// PaymentDetail records what one payment contributed to one schedule
// entry. A payment spanning several contract years has one row per entry
// touched. The full set is deleted and reinserted whenever its parent
// payment is replayed.
type PaymentDetail struct {
	ID         uint `json:"id" gorm:"primarykey"`
	PaymentID  uint `json:"payment_id" gorm:"index;not null"`
	ScheduleID uint `json:"schedule_id" gorm:"index;not null"`

	RentPaid           decimal.Decimal `json:"rent_paid" gorm:"type:decimal(20,2);default:0"`
	PenaltyPaid        decimal.Decimal `json:"penalty_paid" gorm:"type:decimal(20,2);default:0"`
	PremiumPaid        decimal.Decimal `json:"premium_paid" gorm:"type:decimal(20,2);default:0"`
	DiscountApply      decimal.Decimal `json:"discount_apply" gorm:"type:decimal(20,2);default:0"`
	CurrentYearPayment decimal.Decimal `json:"current_year_payment" gorm:"type:decimal(20,2);default:0"`

	Status    string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the historical table name.
func (PaymentDetail) TableName() string {
	return "lease_payment_details"
}
