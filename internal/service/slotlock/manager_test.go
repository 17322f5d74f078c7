package slotlock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	lockRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/slotlock"
	"github.com/m04kA/SMC-ServiceCenter/pkg/types"
)

// fakeLockRepo in-memory репозиторий, воспроизводящий уникальное ограничение
// на (branch_id, slot_date, slot_time)
type fakeLockRepo struct {
	mu    sync.Mutex
	locks map[string]*domain.SlotLock // key -> lock
	byID  map[string]*domain.SlotLock
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{
		locks: make(map[string]*domain.SlotLock),
		byID:  make(map[string]*domain.SlotLock),
	}
}

func slotKeyOf(l *domain.SlotLock) string {
	return l.BranchID + "/" + l.SlotDate + " " + l.SlotTime.String()
}

func (f *fakeLockRepo) Create(_ context.Context, lock *domain.SlotLock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := slotKeyOf(lock)
	if _, held := f.locks[key]; held {
		return lockRepo.ErrSlotTaken
	}
	copied := *lock
	f.locks[key] = &copied
	f.byID[lock.ID] = &copied
	return nil
}

func (f *fakeLockRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reaped int64
	for key, lock := range f.locks {
		if lock.IsExpired(now) {
			delete(f.locks, key)
			delete(f.byID, lock.ID)
			reaped++
		}
	}
	return reaped, nil
}

func (f *fakeLockRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lock, ok := f.byID[id]; ok {
		delete(f.locks, slotKeyOf(lock))
		delete(f.byID, id)
	}
	return nil
}

func (f *fakeLockRepo) GetByID(_ context.Context, id string) (*domain.SlotLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock, ok := f.byID[id]
	if !ok {
		return nil, lockRepo.ErrLockNotFound
	}
	copied := *lock
	return &copied, nil
}

type fakeBookingRepo struct {
	blocked map[string]bool
}

func (f *fakeBookingRepo) ExistsBlockingAtSlot(_ context.Context, branchID, slotDate string, slotTime types.TimeString) (bool, error) {
	return f.blocked[branchID+"/"+slotDate+" "+slotTime.String()], nil
}

// fakeTxManager выполняет fn без настоящей транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newTestManager(locks *fakeLockRepo, bookings *fakeBookingRepo, now time.Time) *Manager {
	m := NewManager(locks, bookings, fakeTxManager{}, 10, noopLogger{})
	m.timeProvider = &fakeTimeProvider{now: now}
	return m
}

var testAppointment = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func TestAcquire_Success(t *testing.T) {
	m := newTestManager(newFakeLockRepo(), &fakeBookingRepo{blocked: map[string]bool{}}, testAppointment)

	lock, err := m.Acquire(context.Background(), "MAIN", testAppointment, 42)

	require.NoError(t, err)
	assert.NotEmpty(t, lock.ID)
	assert.Equal(t, "MAIN", lock.BranchID)
	assert.Equal(t, "2024-06-01", lock.SlotDate)
	assert.Equal(t, types.TimeString("10:00"), lock.SlotTime)
	assert.Equal(t, int64(42), lock.LockedByUserID)
	assert.Equal(t, testAppointment.Add(10*time.Minute), lock.ExpiresAt)
}

func TestAcquire_SlotAlreadyBooked(t *testing.T) {
	bookings := &fakeBookingRepo{blocked: map[string]bool{"MAIN/2024-06-01 10:00": true}}
	m := newTestManager(newFakeLockRepo(), bookings, testAppointment)

	_, err := m.Acquire(context.Background(), "MAIN", testAppointment, 42)

	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestAcquire_MutualExclusion(t *testing.T) {
	m := newTestManager(newFakeLockRepo(), &fakeBookingRepo{blocked: map[string]bool{}}, testAppointment)

	succeeded := 0
	for i := 0; i < 5; i++ {
		_, err := m.Acquire(context.Background(), "MAIN", testAppointment, int64(i))
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotLocked)
		}
	}

	assert.Equal(t, 1, succeeded)
}

func TestAcquire_DifferentSlotsDoNotConflict(t *testing.T) {
	m := newTestManager(newFakeLockRepo(), &fakeBookingRepo{blocked: map[string]bool{}}, testAppointment)

	_, err := m.Acquire(context.Background(), "MAIN", testAppointment, 1)
	require.NoError(t, err)

	_, err = m.Acquire(context.Background(), "MAIN", testAppointment.Add(30*time.Minute), 2)
	require.NoError(t, err)

	_, err = m.Acquire(context.Background(), "NORTH", testAppointment, 3)
	require.NoError(t, err)
}

func TestAcquire_ReapsExpiredLocks(t *testing.T) {
	locks := newFakeLockRepo()
	m := newTestManager(locks, &fakeBookingRepo{blocked: map[string]bool{}}, testAppointment)

	first, err := m.Acquire(context.Background(), "MAIN", testAppointment, 1)
	require.NoError(t, err)

	// Пока TTL не истек, слот занят
	_, err = m.Acquire(context.Background(), "MAIN", testAppointment, 2)
	require.ErrorIs(t, err, ErrSlotLocked)

	// Сдвигаем время за TTL: следующий acquire собирает просроченную
	// блокировку и захватывает слот
	m.timeProvider = &fakeTimeProvider{now: testAppointment.Add(11 * time.Minute)}

	second, err := m.Acquire(context.Background(), "MAIN", testAppointment, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = locks.GetByID(context.Background(), first.ID)
	assert.ErrorIs(t, err, lockRepo.ErrLockNotFound)
}

func TestRelease_Idempotent(t *testing.T) {
	m := newTestManager(newFakeLockRepo(), &fakeBookingRepo{blocked: map[string]bool{}}, testAppointment)

	lock, err := m.Acquire(context.Background(), "MAIN", testAppointment, 1)
	require.NoError(t, err)

	require.NoError(t, m.Release(context.Background(), lock.ID))
	// Повторное снятие не является ошибкой
	require.NoError(t, m.Release(context.Background(), lock.ID))

	// После снятия слот снова доступен
	_, err = m.Acquire(context.Background(), "MAIN", testAppointment, 2)
	assert.NoError(t, err)
}

func TestRevalidate(t *testing.T) {
	m := newTestManager(newFakeLockRepo(), &fakeBookingRepo{blocked: map[string]bool{}}, testAppointment)

	lock, err := m.Acquire(context.Background(), "MAIN", testAppointment, 1)
	require.NoError(t, err)

	t.Run("still owned", func(t *testing.T) {
		assert.NoError(t, m.Revalidate(context.Background(), lock.ID, 1))
	})

	t.Run("wrong owner", func(t *testing.T) {
		assert.ErrorIs(t, m.Revalidate(context.Background(), lock.ID, 2), ErrLockLost)
	})

	t.Run("expired", func(t *testing.T) {
		m.timeProvider = &fakeTimeProvider{now: testAppointment.Add(11 * time.Minute)}
		assert.ErrorIs(t, m.Revalidate(context.Background(), lock.ID, 1), ErrLockLost)
		m.timeProvider = &fakeTimeProvider{now: testAppointment}
	})

	t.Run("gone", func(t *testing.T) {
		require.NoError(t, m.Release(context.Background(), lock.ID))
		assert.ErrorIs(t, m.Revalidate(context.Background(), lock.ID, 1), ErrLockLost)
	})
}

func TestAcquire_ZeroAppointmentRejected(t *testing.T) {
	m := newTestManager(newFakeLockRepo(), &fakeBookingRepo{blocked: map[string]bool{}}, testAppointment)

	_, err := m.Acquire(context.Background(), "MAIN", time.Time{}, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
