package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lease-service/internal/lease"
	"lease-service/internal/middleware"
	"lease-service/pkg/logger"
	"lease-service/prometheus"
)

// LeaseRequest defines the structure for lease creation/update requests.
// Date fields are "2006-01-02" strings; empty or zero-date values are
// treated as not provided.
type LeaseRequest struct {
	LandID        uint `json:"land_id" validate:"required"`
	BeneficiaryID uint `json:"beneficiary_id" validate:"required"`

	ValuationAmount decimal.Decimal `json:"valuation_amount"`
	ValuationDate   string          `json:"valuation_date"`
	ValueDate       string          `json:"value_date"`
	ApprovedDate    string          `json:"approved_date"`

	AnnualRentPercentage float64 `json:"annual_rent_percentage"`
	RevisionPeriod       int     `json:"revision_period"`
	RevisionPercentage   float64 `json:"revision_percentage"`

	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date"`
	DurationYears int    `json:"duration_years"`

	LeaseTypeID      uint   `json:"lease_type_id"`
	TypeOfProject    string `json:"type_of_project"`
	NameOfTheProject string `json:"name_of_the_project"`
	LeaseNumber      string `json:"lease_number"`
	FileNumber       string `json:"file_number"`

	FirstLease           bool            `json:"first_lease"`
	LastLeaseAnnualValue decimal.Decimal `json:"last_lease_annual_value"`
}

// LeaseHandler exposes the lease use cases over HTTP.
type LeaseHandler struct {
	svc *lease.Service
}

// NewLeaseHandler creates a lease handler backed by the given service.
func NewLeaseHandler(svc *lease.Service) *LeaseHandler {
	return &LeaseHandler{svc: svc}
}

// CreateLease handles creating a new lease with its full rent schedule
func (h *LeaseHandler) CreateLease(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new lease")

	var req LeaseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	in, err := req.toInput()
	if err != nil {
		log.Error("Invalid lease data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	log.Info("Lease creation request",
		zap.Uint("land_id", req.LandID),
		zap.Uint("beneficiary_id", req.BeneficiaryID),
		zap.String("valuation_amount", req.ValuationAmount.String()),
		zap.String("start_date", req.StartDate),
		zap.Int("duration_years", req.DurationYears))

	userID, locationID := middleware.OperatorFromContext(c)
	op := lease.Operator{UserID: userID, LocationID: locationID}

	leaseID, err := h.svc.Create(c.Request().Context(), op, in)
	if err != nil {
		return h.writeError(c, log, "Failed to create lease", err)
	}

	prometheus.RecordLeaseOperation("create")
	log.Info("Lease created successfully",
		zap.String("lease_id", strconv.FormatUint(uint64(leaseID), 10)),
		zap.Uint("beneficiary_id", req.BeneficiaryID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Lease created successfully.",
		"lease_id": leaseID,
	})
}

// UpdateLease handles updating an existing lease and reconciling its
// schedules and payments
func (h *LeaseHandler) UpdateLease(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Updating lease", zap.String("lease_id", id))

	leaseID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		log.Error("Invalid lease id", zap.String("lease_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid lease id",
		})
	}

	var req LeaseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("lease_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	in, err := req.toInput()
	if err != nil {
		log.Error("Invalid lease data",
			zap.String("lease_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	userID, locationID := middleware.OperatorFromContext(c)
	op := lease.Operator{UserID: userID, LocationID: locationID}

	outcome, err := h.svc.Update(c.Request().Context(), op, uint(leaseID), in)
	if err != nil {
		return h.writeError(c, log, "Failed to update lease", err)
	}

	prometheus.RecordLeaseOperation("update")
	prometheus.RecordScheduleRebuild(outcome.String())
	log.Info("Lease updated successfully",
		zap.String("lease_id", id),
		zap.String("outcome", outcome.String()))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Lease updated successfully." + outcome.Note(),
	})
}

// GetLease handles retrieving a single lease with its schedule entries
func (h *LeaseHandler) GetLease(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Getting lease by ID", zap.String("lease_id", id))

	leaseID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		log.Error("Invalid lease id", zap.String("lease_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid lease id",
		})
	}

	l, entries, err := h.svc.Get(c.Request().Context(), uint(leaseID))
	if err != nil {
		return h.writeError(c, log, "Failed to retrieve lease", err)
	}

	prometheus.RecordLeaseOperation("get")
	log.Info("Lease retrieved successfully",
		zap.String("lease_id", id),
		zap.String("lease_number", l.LeaseNumber),
		zap.Int("schedule_count", len(entries)))
	return c.JSON(http.StatusOK, echo.Map{
		"lease":     l,
		"schedules": entries,
	})
}

// writeError maps service errors onto HTTP status codes.
func (h *LeaseHandler) writeError(c echo.Context, log *zap.Logger, msg string, err error) error {
	switch {
	case errors.Is(err, lease.ErrValidation):
		log.Warn(msg, zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case errors.Is(err, lease.ErrNotFound):
		log.Warn(msg, zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Lease not found",
		})
	case errors.Is(err, lease.ErrReplayInconsistency):
		prometheus.RecordReplayFailure()
		log.Error(msg, zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": err.Error(),
		})
	default:
		log.Error(msg, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": msg,
		})
	}
}

func (r *LeaseRequest) toInput() (lease.Input, error) {
	startDate, err := parseRequiredDate("start_date", r.StartDate)
	if err != nil {
		return lease.Input{}, err
	}

	valuationDate, err := parseDate("valuation_date", r.ValuationDate)
	if err != nil {
		return lease.Input{}, err
	}
	valueDate, err := parseDate("value_date", r.ValueDate)
	if err != nil {
		return lease.Input{}, err
	}
	approvedDate, err := parseDate("approved_date", r.ApprovedDate)
	if err != nil {
		return lease.Input{}, err
	}
	endDate, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return lease.Input{}, err
	}

	return lease.Input{
		LandID:               r.LandID,
		BeneficiaryID:        r.BeneficiaryID,
		ValuationAmount:      r.ValuationAmount,
		ValuationDate:        valuationDate,
		ValueDate:            valueDate,
		ApprovedDate:         approvedDate,
		AnnualRentPercentage: r.AnnualRentPercentage,
		RevisionPeriod:       r.RevisionPeriod,
		RevisionPercentage:   r.RevisionPercentage,
		StartDate:            startDate,
		EndDate:              endDate,
		DurationYears:        r.DurationYears,
		LeaseTypeID:          r.LeaseTypeID,
		TypeOfProject:        r.TypeOfProject,
		NameOfTheProject:     r.NameOfTheProject,
		LeaseNumber:          r.LeaseNumber,
		FileNumber:           r.FileNumber,
		FirstLease:           r.FirstLease,
		LastLeaseAnnualValue: r.LastLeaseAnnualValue,
	}, nil
}

// parseDate reads a "2006-01-02" value; empty and zero-date placeholders
// count as absent.
func parseDate(field, value string) (*time.Time, error) {
	switch value {
	case "", "null", "0000-00-00":
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected YYYY-MM-DD", field)
	}
	return &t, nil
}

func parseRequiredDate(field, value string) (time.Time, error) {
	t, err := parseDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("missing %s", field)
	}
	return *t, nil
}
