package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease status values.
const (
	LeaseStatusActive = "active"
)

// Lease represents one long-term land lease. There is exactly one row per
// lease; history of edits lives in the change log, not here.
type Lease struct {
	ID            uint   `json:"id" gorm:"primarykey"`
	LandID        uint   `json:"land_id" gorm:"index;not null"`
	BeneficiaryID uint   `json:"beneficiary_id" gorm:"index;not null"`
	LocationID    uint   `json:"location_id" gorm:"index"`
	LeaseNumber   string `json:"lease_number" gorm:"type:varchar(100);not null"`
	FileNumber    string `json:"file_number" gorm:"type:varchar(100)"`

	ValuationAmount decimal.Decimal `json:"valuation_amount" gorm:"type:decimal(20,2);default:0"`
	ValuationDate   *time.Time      `json:"valuation_date"`
	ValueDate       *time.Time      `json:"value_date"`
	ApprovedDate    *time.Time      `json:"approved_date"`

	Premium              decimal.Decimal `json:"premium" gorm:"type:decimal(20,2);default:0"`
	AnnualRentPercentage float64         `json:"annual_rent_percentage"`
	RevisionPeriod       int             `json:"revision_period"`
	RevisionPercentage   float64         `json:"revision_percentage"`

	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	DurationYears int        `json:"duration_years"`

	LeaseTypeID      uint   `json:"lease_type_id" gorm:"index"`
	TypeOfProject    string `json:"type_of_project" gorm:"type:varchar(255)"`
	NameOfTheProject string `json:"name_of_the_project" gorm:"type:varchar(255)"`

	// FirstLease marks a brand-new lease; when set, LastLeaseAnnualValue
	// (the rent baseline carried from a prior lease) is forced to zero.
	FirstLease           bool            `json:"first_lease" gorm:"default:true"`
	LastLeaseAnnualValue decimal.Decimal `json:"last_lease_annual_value" gorm:"type:decimal(20,2);default:0"`

	Status    string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedBy uint      `json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
