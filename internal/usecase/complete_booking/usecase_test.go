package complete_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/customer"
	ledgerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	updated  []*domain.Booking
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
	f.updated = append(f.updated, &copied)
	return nil
}

type fakeLedgerRepo struct {
	byBooking map[int64]*domain.Transaction
	nextID    int64
}

func (f *fakeLedgerRepo) Create(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if txn.BookingID != nil {
		if _, ok := f.byBooking[*txn.BookingID]; ok {
			return nil, ledgerRepo.ErrDuplicateTransaction
		}
	}
	f.nextID++
	txn.ID = f.nextID
	if txn.BookingID != nil {
		f.byBooking[*txn.BookingID] = txn
	}
	return txn, nil
}

func (f *fakeLedgerRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Transaction, error) {
	txn, ok := f.byBooking[bookingID]
	if !ok {
		return nil, ledgerRepo.ErrTransactionNotFound
	}
	return txn, nil
}

type fakeEmployeeRepo struct {
	active map[int64]string // employee id -> branch id
}

func (f *fakeEmployeeRepo) ExistsActive(_ context.Context, id int64, branchID string) (bool, error) {
	branch, ok := f.active[id]
	return ok && branch == branchID, nil
}

type fakeCustomerRepo struct{}

func (fakeCustomerRepo) GetActiveByID(_ context.Context, id int64) (*domain.Customer, error) {
	return nil, customerRepo.ErrCustomerNotFound
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct{}

func (fakeNotifier) Send(_ context.Context, _ notifier.Notification) error { return nil }

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
	now        = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	staffActor = domain.Actor{SubjectID: 100, Role: domain.RoleEmployee}
)

type fixture struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	ledger   *fakeLedgerRepo
	audit    *fakeAudit
}

func newFixture() *fixture {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID:           1,
			CustomerID:   10,
			ServiceID:    1,
			BranchID:     "MAIN",
			Status:       domain.StatusApproved,
			ServiceName:  "Oil change",
			ServicePrice: 49.90,
		},
	}}
	ledger := &fakeLedgerRepo{byBooking: map[int64]*domain.Transaction{}}
	employees := &fakeEmployeeRepo{active: map[int64]string{5: "MAIN", 6: "NORTH"}}
	audit := &fakeAudit{}

	uc := NewUseCase(bookings, ledger, employees, fakeCustomerRepo{}, fakeTxManager{}, fakeNotifier{}, audit, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &fixture{uc: uc, bookings: bookings, ledger: ledger, audit: audit}
}

func validRequest() *Request {
	return &Request{
		Actor:                 staffActor,
		BookingID:             1,
		FinalPrice:            55.00,
		PerformedByEmployeeID: 5,
	}
}

func TestExecute_CompletesBookingAndCreatesTransaction(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	require.NotNil(t, resp.FinalPrice)
	assert.Equal(t, 55.00, *resp.FinalPrice)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, now, *resp.CompletedAt)
	assert.Equal(t, string(domain.TransactionIncome), resp.Transaction.Type)
	assert.Equal(t, string(domain.SourceBooking), resp.Transaction.Source)
	assert.Equal(t, 55.00, resp.Transaction.Amount)
	assert.Len(t, f.audit.entries, 1)
}

func TestExecute_SecondCallReturnsSameTransaction(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	second, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Проводка одна и та же, второй не появилось
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Len(t, f.ledger.byBooking, 1)
	assert.Equal(t, first.Status, second.Status)
}

func TestExecute_ConcurrentCompletionReReads(t *testing.T) {
	f := newFixture()

	// Конкурент успел создать проводку и завершить бронирование, пока наша
	// транзакция шла к вставке: вставка упадет на уникальности booking_id
	f.ledger.byBooking[1] = &domain.Transaction{
		ID:        77,
		Type:      domain.TransactionIncome,
		Source:    domain.SourceBooking,
		Amount:    55.00,
		BookingID: ptr.Ptr(int64(1)),
	}
	// Фейковый репозиторий не откатывает UpdateLifecycle, поэтому перечит
	// увидит завершенное бронирование - как если бы его записал конкурент

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(77), resp.Transaction.ID)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	// Вторая проводка не появилась
	assert.Len(t, f.ledger.byBooking, 1)
}

func TestExecute_ForbiddenForCustomer(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.Actor = domain.Actor{SubjectID: 200, Role: domain.RoleCustomer}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.BookingID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_InvalidEmployee(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name       string
		employeeID int64
	}{
		{"unknown employee", 999},
		{"employee from another branch", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.PerformedByEmployeeID = tt.employeeID

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidEmployee)
		})
	}
}

func TestExecute_InvalidTransition(t *testing.T) {
	f := newFixture()
	f.bookings.bookings[1].Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	// Проводка не создана, бронирование не обновлено
	assert.Empty(t, f.ledger.byBooking)
	assert.Empty(t, f.bookings.updated)
}

func TestExecute_NegativeFinalPrice(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.FinalPrice = -1

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
