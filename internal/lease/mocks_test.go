package lease

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"lease-service/internal/model"
)

// fakeData is the in-memory backing state shared by the fake repositories.
type fakeData struct {
	leases     map[uint]*model.Lease
	leaseTypes map[uint]*model.LeaseType
	schedules  []*model.ScheduleEntry
	payments   []*model.Payment
	details    map[uint][]model.PaymentDetail

	nextLeaseID    uint
	nextScheduleID uint
}

func (d *fakeData) clone() *fakeData {
	c := &fakeData{
		leases:         make(map[uint]*model.Lease, len(d.leases)),
		leaseTypes:     d.leaseTypes,
		schedules:      make([]*model.ScheduleEntry, len(d.schedules)),
		payments:       make([]*model.Payment, len(d.payments)),
		details:        make(map[uint][]model.PaymentDetail, len(d.details)),
		nextLeaseID:    d.nextLeaseID,
		nextScheduleID: d.nextScheduleID,
	}
	for id, l := range d.leases {
		v := *l
		c.leases[id] = &v
	}
	for i, e := range d.schedules {
		v := *e
		c.schedules[i] = &v
	}
	for i, p := range d.payments {
		v := *p
		c.payments[i] = &v
	}
	for id, rows := range d.details {
		c.details[id] = append([]model.PaymentDetail(nil), rows...)
	}
	return c
}

// fakeStore implements Store over fakeData. InTx snapshots the state and
// restores it when fn fails, mirroring a transaction rollback.
type fakeStore struct {
	data *fakeData
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: &fakeData{
		leases:         map[uint]*model.Lease{},
		leaseTypes:     map[uint]*model.LeaseType{},
		details:        map[uint][]model.PaymentDetail{},
		nextLeaseID:    1,
		nextScheduleID: 1,
	}}
}

func (s *fakeStore) InTx(ctx context.Context, fn func(Store) error) error {
	snapshot := s.data.clone()
	if err := fn(s); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *fakeStore) Leases() LeaseRepository         { return fakeLeaseRepo{s.data} }
func (s *fakeStore) LeaseTypes() LeaseTypeRepository { return fakeLeaseTypeRepo{s.data} }
func (s *fakeStore) Schedules() ScheduleRepository   { return fakeScheduleRepo{s.data} }
func (s *fakeStore) Payments() PaymentRepository     { return fakePaymentRepo{s.data} }

// seed helpers

func (s *fakeStore) addLeaseType(lt *model.LeaseType) {
	s.data.leaseTypes[lt.ID] = lt
}

func (s *fakeStore) addPayment(p *model.Payment) {
	v := *p
	s.data.payments = append(s.data.payments, &v)
}

func (s *fakeStore) leaseByID(id uint) *model.Lease {
	return s.data.leases[id]
}

func (s *fakeStore) schedulesOf(leaseID uint) []*model.ScheduleEntry {
	var out []*model.ScheduleEntry
	for _, e := range s.data.schedules {
		if e.LeaseID == leaseID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (s *fakeStore) paymentByID(id uint) *model.Payment {
	for _, p := range s.data.payments {
		if p.ID == id {
			return p
		}
	}
	return nil
}

type fakeLeaseRepo struct{ d *fakeData }

func (r fakeLeaseRepo) Create(ctx context.Context, l *model.Lease) error {
	l.ID = r.d.nextLeaseID
	r.d.nextLeaseID++
	v := *l
	r.d.leases[l.ID] = &v
	return nil
}

func (r fakeLeaseRepo) FindByID(ctx context.Context, id uint) (*model.Lease, error) {
	l, ok := r.d.leases[id]
	if !ok {
		return nil, nil
	}
	v := *l
	return &v, nil
}

func (r fakeLeaseRepo) Update(ctx context.Context, l *model.Lease) error {
	v := *l
	r.d.leases[l.ID] = &v
	return nil
}

type fakeLeaseTypeRepo struct{ d *fakeData }

func (r fakeLeaseTypeRepo) FindByID(ctx context.Context, id uint) (*model.LeaseType, error) {
	lt, ok := r.d.leaseTypes[id]
	if !ok {
		return nil, nil
	}
	v := *lt
	return &v, nil
}

func (r fakeLeaseTypeRepo) DiscountRateFor(ctx context.Context, leaseID uint) (float64, error) {
	l, ok := r.d.leases[leaseID]
	if !ok {
		return 0, nil
	}
	lt, ok := r.d.leaseTypes[l.LeaseTypeID]
	if !ok {
		return 0, nil
	}
	return lt.DiscountRate, nil
}

type fakeScheduleRepo struct{ d *fakeData }

func (r fakeScheduleRepo) DeleteByLease(ctx context.Context, leaseID uint) error {
	kept := r.d.schedules[:0]
	for _, e := range r.d.schedules {
		if e.LeaseID != leaseID {
			kept = append(kept, e)
		}
	}
	r.d.schedules = kept
	return nil
}

func (r fakeScheduleRepo) CreateBatch(ctx context.Context, entries []model.ScheduleEntry) error {
	for i := range entries {
		v := entries[i]
		v.ID = r.d.nextScheduleID
		r.d.nextScheduleID++
		r.d.schedules = append(r.d.schedules, &v)
	}
	return nil
}

func (r fakeScheduleRepo) ListByLease(ctx context.Context, leaseID uint) ([]*model.ScheduleEntry, error) {
	var out []*model.ScheduleEntry
	for _, e := range r.d.schedules {
		if e.LeaseID == leaseID {
			v := *e
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r fakeScheduleRepo) AddPaidAmounts(ctx context.Context, alloc EntryAllocation) error {
	for _, e := range r.d.schedules {
		if e.ID == alloc.ScheduleID {
			e.PaidRent = e.PaidRent.Add(alloc.Rent)
			e.PenaltyPaid = e.PenaltyPaid.Add(alloc.Penalty)
			e.PremiumPaid = e.PremiumPaid.Add(alloc.Premium)
			e.DiscountApply = e.DiscountApply.Add(alloc.Discount)
			e.TotalPaid = e.TotalPaid.Add(alloc.TotalPaid)
			return nil
		}
	}
	return nil
}

func (r fakeScheduleRepo) ZeroPenalties(ctx context.Context, leaseID uint) error {
	for _, e := range r.d.schedules {
		if e.LeaseID == leaseID {
			e.Penalty = decimal.Zero
			e.PenaltyPaid = decimal.Zero
		}
	}
	return nil
}

type fakePaymentRepo struct{ d *fakeData }

func (r fakePaymentRepo) CountActive(ctx context.Context, leaseID uint) (int64, error) {
	var n int64
	for _, p := range r.d.payments {
		if p.LeaseID == leaseID && p.Status == model.PaymentStatusActive {
			n++
		}
	}
	return n, nil
}

func (r fakePaymentRepo) ListActive(ctx context.Context, leaseID uint) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, p := range r.d.payments {
		if p.LeaseID == leaseID && p.Status == model.PaymentStatusActive {
			v := *p
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.Before(out[j].PaymentDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r fakePaymentRepo) UpdateAllocation(ctx context.Context, p *model.Payment) error {
	for i, existing := range r.d.payments {
		if existing.ID == p.ID {
			v := *p
			r.d.payments[i] = &v
			return nil
		}
	}
	return nil
}

func (r fakePaymentRepo) ReplaceDetails(ctx context.Context, paymentID uint, details []model.PaymentDetail) error {
	r.d.details[paymentID] = append([]model.PaymentDetail(nil), details...)
	return nil
}

// fakeAllocator delegates to fn, defaulting to a rent-only waterfall.
type fakeAllocator struct {
	fn func(state []*model.ScheduleEntry, paymentDate time.Time, amount decimal.Decimal, discountRate float64) (*AllocationResult, error)
}

func (a *fakeAllocator) Allocate(state []*model.ScheduleEntry, paymentDate time.Time, amount decimal.Decimal, discountRate float64) (*AllocationResult, error) {
	if a.fn != nil {
		return a.fn(state, paymentDate, amount, discountRate)
	}
	return rentOnlyAllocate(state, paymentDate, amount)
}

// rentOnlyAllocate pays rent across entries oldest first, ignoring
// penalties, premiums and discounts. Enough allocator for exercising the
// replay fold.
func rentOnlyAllocate(state []*model.ScheduleEntry, paymentDate time.Time, amount decimal.Decimal) (*AllocationResult, error) {
	clones := make([]*model.ScheduleEntry, len(state))
	for i, e := range state {
		v := *e
		clones[i] = &v
	}

	res := &AllocationResult{Remaining: amount, Schedules: clones}
	for _, e := range clones {
		if !res.Remaining.IsPositive() {
			break
		}
		owed := e.AnnualAmount.Sub(e.PaidRent)
		if !owed.IsPositive() {
			continue
		}

		take := decimal.Min(res.Remaining, owed)
		res.Remaining = res.Remaining.Sub(take)
		e.PaidRent = e.PaidRent.Add(take)
		e.TotalPaid = e.TotalPaid.Add(take)

		var current decimal.Decimal
		if !paymentDate.Before(e.StartDate) && !paymentDate.After(e.EndDate) {
			current = take
		}

		res.Allocations = append(res.Allocations, EntryAllocation{
			ScheduleID:         e.ID,
			Rent:               take,
			CurrentYearPayment: current,
			TotalPaid:          take,
		})
		res.Totals.Rent = res.Totals.Rent.Add(take)
		res.Totals.CurrentYearPayment = res.Totals.CurrentYearPayment.Add(current)
		res.CurrentScheduleID = e.ID
	}
	return res, nil
}

type fakePenalty struct {
	calls []uint
	err   error
}

func (p *fakePenalty) Recompute(ctx context.Context, leaseID uint) error {
	p.calls = append(p.calls, leaseID)
	return p.err
}

type fakeSink struct {
	entries []ChangeLogEntry
	err     error
}

func (s *fakeSink) Log(ctx context.Context, entry ChangeLogEntry) error {
	s.entries = append(s.entries, entry)
	return s.err
}
