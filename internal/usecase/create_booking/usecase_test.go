package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/customer"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
	slotlockSvc "github.com/m04kA/SMC-ServiceCenter/internal/service/slotlock"
	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

type fakeBookingRepo struct {
	created []*domain.Booking
	err     error
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b.ID = int64(len(f.created) + 1)
	f.created = append(f.created, b)
	return b, nil
}

type fakeCatalog struct {
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetActiveByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return svc, nil
}

type fakeCustomerRepo struct {
	customers map[int64]*domain.Customer
}

func (f *fakeCustomerRepo) GetActiveByID(_ context.Context, id int64) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, customerRepo.ErrCustomerNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) GetActiveByUserID(_ context.Context, userID int64) (*domain.Customer, error) {
	for _, c := range f.customers {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	return nil, customerRepo.ErrCustomerNotFound
}

// fakeLockManager фиксирует захваты и снятия блокировок
type fakeLockManager struct {
	acquireErr    error
	revalidateErr error
	acquired      int
	released      []string
}

func (f *fakeLockManager) Acquire(_ context.Context, branchID string, appointmentAt time.Time, userID int64) (*domain.SlotLock, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	key, _ := domain.ResolveSlotKey(branchID, appointmentAt)
	return &domain.SlotLock{
		ID:             "lock-1",
		BranchID:       key.BranchID,
		SlotDate:       key.Date,
		SlotTime:       key.Time,
		LockedByUserID: userID,
	}, nil
}

func (f *fakeLockManager) Release(_ context.Context, lockID string) error {
	f.released = append(f.released, lockID)
	return nil
}

func (f *fakeLockManager) Revalidate(_ context.Context, lockID string, userID int64) error {
	return f.revalidateErr
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	sent []notifier.Notification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, n notifier.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeAudit struct {
	entries []auditlog.Entry
}

func (f *fakeAudit) Append(_ context.Context, e auditlog.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var (
	now           = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	appointmentAt = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	customerActor = domain.Actor{SubjectID: 200, Role: domain.RoleCustomer}
	staffActor    = domain.Actor{SubjectID: 100, Role: domain.RoleEmployee}
)

type fixture struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	locks    *fakeLockManager
	notify   *fakeNotifier
	audit    *fakeAudit
}

func newFixture() *fixture {
	bookings := &fakeBookingRepo{}
	locks := &fakeLockManager{}
	notify := &fakeNotifier{}
	audit := &fakeAudit{}

	catalog := &fakeCatalog{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Oil change", Category: "maintenance", Price: 49.90, Active: true},
	}}
	customers := &fakeCustomerRepo{customers: map[int64]*domain.Customer{
		10: {ID: 10, UserID: ptr.Ptr(int64(200)), FullName: "Client", Active: true},
		11: {ID: 11, FullName: "Walk-in client", Active: true},
	}}

	uc := NewUseCase(bookings, catalog, customers, locks, fakeTxManager{}, notify, audit, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &fixture{uc: uc, bookings: bookings, locks: locks, notify: notify, audit: audit}
}

func selfServiceRequest() *Request {
	return &Request{
		Actor:         customerActor,
		ServiceID:     1,
		BranchID:      "MAIN",
		AppointmentAt: appointmentAt,
	}
}

func TestExecute_SelfServiceCreatesPending(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), selfServiceRequest())

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(10), resp.CustomerID)
	assert.Equal(t, "2024-06-01", resp.SlotDate)
	assert.Equal(t, "10:00", resp.SlotTime)
	// Снапшот услуги заморожен в бронировании
	assert.Equal(t, "Oil change", resp.ServiceName)
	assert.Equal(t, "maintenance", resp.ServiceCategory)
	assert.Equal(t, 49.90, resp.ServicePrice)
	// Блокировка снята после успеха
	assert.Equal(t, []string{"lock-1"}, f.locks.released)
	assert.Len(t, f.notify.sent, 1)
	assert.Len(t, f.audit.entries, 1)
}

func TestExecute_WalkInCreatesApproved(t *testing.T) {
	f := newFixture()

	req := selfServiceRequest()
	req.Actor = staffActor
	req.CustomerID = ptr.Ptr(int64(11))

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.Equal(t, int64(11), resp.CustomerID)
	// У walk-in клиента нет аккаунта - уведомление не отправляется
	assert.Empty(t, f.notify.sent)
}

func TestExecute_WalkInRequiresCustomerID(t *testing.T) {
	f := newFixture()

	req := selfServiceRequest()
	req.Actor = staffActor

	_, err := f.uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrCustomerIDRequired)
	// До захвата блокировки дело не дошло
	assert.Zero(t, f.locks.acquired)
}

func TestExecute_WalkInCustomerNotFound(t *testing.T) {
	f := newFixture()

	req := selfServiceRequest()
	req.Actor = staffActor
	req.CustomerID = ptr.Ptr(int64(999))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()

	req := selfServiceRequest()
	req.ServiceID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_SlotConflictsPassedThrough(t *testing.T) {
	f := newFixture()
	f.locks.acquireErr = slotlockSvc.ErrSlotAlreadyBooked

	_, err := f.uc.Execute(context.Background(), selfServiceRequest())
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)

	f.locks.acquireErr = slotlockSvc.ErrSlotLocked

	_, err = f.uc.Execute(context.Background(), selfServiceRequest())
	require.ErrorIs(t, err, ErrSlotLocked)
}

func TestExecute_LockReleasedWhenPersistenceFails(t *testing.T) {
	f := newFixture()
	f.bookings.err = errors.New("db down")

	_, err := f.uc.Execute(context.Background(), selfServiceRequest())

	require.ErrorIs(t, err, ErrInternal)
	// Блокировка снята до возврата ошибки - слот не остается занятым
	assert.Equal(t, []string{"lock-1"}, f.locks.released)
}

func TestExecute_LockLostBeforeInsert(t *testing.T) {
	f := newFixture()
	f.locks.revalidateErr = slotlockSvc.ErrLockLost

	_, err := f.uc.Execute(context.Background(), selfServiceRequest())

	require.ErrorIs(t, err, ErrSlotLocked)
	assert.Empty(t, f.bookings.created)
	assert.Equal(t, []string{"lock-1"}, f.locks.released)
}

func TestExecute_NotificationFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.notify.err = errors.New("notifier down")

	resp, err := f.uc.Execute(context.Background(), selfServiceRequest())

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestExecute_AppointmentInPast(t *testing.T) {
	f := newFixture()

	req := selfServiceRequest()
	req.AppointmentAt = now.Add(-time.Hour)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentInPast)
}
