package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/customer"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateLifecycle(_ context.Context, b *domain.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByCustomer(_ context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByBranchWithFilter(_ context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.BranchID == filter.BranchID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
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

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAudit struct {
	entries []auditlog.Entry
}

func (f *fakeAudit) Append(_ context.Context, e auditlog.Entry) error {
	f.entries = append(f.entries, e)
	return nil
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

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var (
	staff    = domain.Actor{SubjectID: 100, Role: domain.RoleManager}
	customer = domain.Actor{SubjectID: 200, Role: domain.RoleCustomer}
	stranger = domain.Actor{SubjectID: 300, Role: domain.RoleCustomer}
)

var appointmentAt = time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	bookings *fakeBookingRepo
	audit    *fakeAudit
	notify   *fakeNotifier
}

func newFixture(now time.Time) *fixture {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID:            1,
			CustomerID:    10,
			BranchID:      "MAIN",
			AppointmentAt: appointmentAt,
			SlotDate:      "2024-06-10",
			SlotTime:      "10:00",
			Status:        domain.StatusPending,
		},
		2: {
			ID:            2,
			CustomerID:    10,
			BranchID:      "MAIN",
			AppointmentAt: appointmentAt,
			SlotDate:      "2024-06-10",
			SlotTime:      "11:00",
			Status:        domain.StatusApproved,
		},
	}}
	customers := &fakeCustomerRepo{customers: map[int64]*domain.Customer{
		10: {ID: 10, UserID: ptr.Ptr(int64(200)), FullName: "Client", Active: true},
		11: {ID: 11, UserID: ptr.Ptr(int64(300)), FullName: "Other", Active: true},
	}}
	audit := &fakeAudit{}
	notify := &fakeNotifier{}

	svc := NewService(bookings, customers, fakeTxManager{}, audit, notify, noopLogger{})
	svc.timeProvider = &fakeTimeProvider{now: now}

	return &fixture{svc: svc, bookings: bookings, audit: audit, notify: notify}
}

func TestApprove_StaffOnly(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))

	_, err := f.svc.Approve(context.Background(), customer, 1)
	require.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.Approve(context.Background(), staff, 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.Len(t, f.audit.entries, 1)
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, int64(200), f.notify.sent[0].UserID)
}

func TestReject_SetsReasonAndClearsCancelReason(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))
	f.bookings.bookings[2].CancelReason = ptr.Ptr("stale")

	resp, err := f.svc.Reject(context.Background(), staff, 2, "no capacity")

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	require.NotNil(t, resp.RejectReason)
	assert.Equal(t, "no capacity", *resp.RejectReason)
	assert.Nil(t, resp.CancelReason)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))

	_, err := f.svc.Reject(context.Background(), staff, 1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_OwnerAllowed(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))

	resp, err := f.svc.Cancel(context.Background(), customer, 1, "changed plans")

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelReason)
	assert.Equal(t, "changed plans", *resp.CancelReason)
}

func TestCancel_StrangerForbidden(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))

	_, err := f.svc.Cancel(context.Background(), stranger, 1, "not mine")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_LateWindowMarksLateCancelled(t *testing.T) {
	// Отмена за 2 часа до начала попадает в окно поздней отмены
	f := newFixture(appointmentAt.Add(-2 * time.Hour))

	resp, err := f.svc.Cancel(context.Background(), customer, 1, "too late")

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusLateCancelled), resp.Status)
}

func TestTransition_InvalidRejected(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))

	// NO_SHOW разрешен только из APPROVED
	_, err := f.svc.MarkNoShow(context.Background(), staff, 1)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = f.svc.MarkNoShow(context.Background(), staff, 2)
	require.NoError(t, err)
}

func TestTransition_BookingNotFound(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))

	_, err := f.svc.Approve(context.Background(), staff, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestNotificationFailureIsNonFatal(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))
	f.notify.err = errors.New("notifier down")

	resp, err := f.svc.Approve(context.Background(), staff, 1)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
}

func TestGetByID_OwnershipEnforced(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))

	_, err := f.svc.GetByID(context.Background(), customer, 1)
	require.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), stranger, 1)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), staff, 1)
	require.NoError(t, err)
}

func TestMarkNotServed_ClearsCompletionFields(t *testing.T) {
	f := newFixture(appointmentAt.Add(-48 * time.Hour))
	b := f.bookings.bookings[2]
	b.FinalPrice = ptr.Ptr(100.0)
	b.PerformedByEmployeeID = ptr.Ptr(int64(5))
	completedAt := appointmentAt
	b.CompletedAt = &completedAt

	resp, err := f.svc.MarkNotServed(context.Background(), staff, 2)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNotServed), resp.Status)
	assert.Nil(t, resp.FinalPrice)
	assert.Nil(t, resp.PerformedByEmployeeID)
	assert.Nil(t, resp.CompletedAt)
}
