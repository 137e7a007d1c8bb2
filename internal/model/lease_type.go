package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaseType is the per-classification rate card: the base annual rent
// percentage, the "economy" tier (a reduced rate for valuations at or
// below a ceiling), the one-time premium multiplier for pre-cutoff
// leases, and the early-payment discount rate.
type LeaseType struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"type:varchar(100);not null"`

	BaseRentPercent  float64         `json:"base_rent_percent"`
	EconomyRate      float64         `json:"economy_rate"`
	EconomyValuation decimal.Decimal `json:"economy_valuation" gorm:"type:decimal(20,2);default:0"`
	PremiumTimes     float64         `json:"premium_times"`
	DiscountRate     float64         `json:"discount_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (LeaseType) TableName() string {
	return "lease_types"
}
