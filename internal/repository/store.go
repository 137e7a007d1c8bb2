// Package repository contains the gorm-backed adapters for the lease
// store ports.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lease-service/internal/lease"
	"lease-service/internal/model"
	"lease-service/prometheus"
)

// Store implements lease.Store over a gorm connection (or transaction).
type Store struct {
	db *gorm.DB
}

// NewStore wires the adapter.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn against a store bound to one database transaction; gorm
// rolls the whole unit of work back when fn errors.
func (s *Store) InTx(ctx context.Context, fn func(lease.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Leases() lease.LeaseRepository         { return &leaseRepo{db: s.db} }
func (s *Store) LeaseTypes() lease.LeaseTypeRepository { return &leaseTypeRepo{db: s.db} }
func (s *Store) Schedules() lease.ScheduleRepository   { return &scheduleRepo{db: s.db} }
func (s *Store) Payments() lease.PaymentRepository     { return &paymentRepo{db: s.db} }

type leaseRepo struct {
	db *gorm.DB
}

func (r *leaseRepo) Create(ctx context.Context, l *model.Lease) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *leaseRepo) FindByID(ctx context.Context, id uint) (*model.Lease, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var l model.Lease
	err := r.db.WithContext(ctx).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaseRepo) Update(ctx context.Context, l *model.Lease) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(l).Error
}

type leaseTypeRepo struct {
	db *gorm.DB
}

func (r *leaseTypeRepo) FindByID(ctx context.Context, id uint) (*model.LeaseType, error) {
	var lt model.LeaseType
	err := r.db.WithContext(ctx).First(&lt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *leaseTypeRepo) DiscountRateFor(ctx context.Context, leaseID uint) (float64, error) {
	var l model.Lease
	err := r.db.WithContext(ctx).First(&l, leaseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if l.LeaseTypeID == 0 {
		return 0, nil
	}

	lt, err := r.FindByID(ctx, l.LeaseTypeID)
	if err != nil || lt == nil {
		return 0, err
	}
	return lt.DiscountRate, nil
}

type scheduleRepo struct {
	db *gorm.DB
}

func (r *scheduleRepo) DeleteByLease(ctx context.Context, leaseID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Delete(&model.ScheduleEntry{}).Error
}

func (r *scheduleRepo) CreateBatch(ctx context.Context, entries []model.ScheduleEntry) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *scheduleRepo) ListByLease(ctx context.Context, leaseID uint) ([]*model.ScheduleEntry, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var entries []*model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("start_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *scheduleRepo) AddPaidAmounts(ctx context.Context, alloc lease.EntryAllocation) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("id = ?", alloc.ScheduleID).
		Updates(map[string]interface{}{
			"paid_rent":      gorm.Expr("paid_rent + ?", alloc.Rent),
			"penalty_paid":   gorm.Expr("penalty_paid + ?", alloc.Penalty),
			"premium_paid":   gorm.Expr("premium_paid + ?", alloc.Premium),
			"total_paid":     gorm.Expr("total_paid + ?", alloc.TotalPaid),
			"discount_apply": gorm.Expr("discount_apply + ?", alloc.Discount),
		}).Error
}

func (r *scheduleRepo) ZeroPenalties(ctx context.Context, leaseID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("lease_id = ?", leaseID).
		Updates(map[string]interface{}{
			"penalty":      0,
			"penalty_paid": 0,
		}).Error
}

type paymentRepo struct {
	db *gorm.DB
}

func (r *paymentRepo) CountActive(ctx context.Context, leaseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("lease_id = ? AND status = ?", leaseID, model.PaymentStatusActive).
		Count(&count).Error
	return count, err
}

func (r *paymentRepo) ListActive(ctx context.Context, leaseID uint) ([]*model.Payment, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("lease_id = ? AND status = ?", leaseID, model.PaymentStatusActive).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) UpdateAllocation(ctx context.Context, p *model.Payment) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"schedule_id":          p.ScheduleID,
			"rent_paid":            p.RentPaid,
			"penalty_paid":         p.PenaltyPaid,
			"premium_paid":         p.PremiumPaid,
			"discount_apply":       p.DiscountApply,
			"current_year_payment": p.CurrentYearPayment,
			"payment_type":         p.PaymentType,
		}).Error
}

func (r *paymentRepo) ReplaceDetails(ctx context.Context, paymentID uint, details []model.PaymentDetail) error {
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Delete(&model.PaymentDetail{}).Error; err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&details).Error
}
