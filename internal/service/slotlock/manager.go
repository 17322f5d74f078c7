package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	lockRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/slotlock"
)

// Manager менеджер краткоживущих эксклюзивных блокировок слотов.
// Блокировка удерживается только на время одной попытки создания
// бронирования; источником истины о занятости слота остается живое
// бронирование, а не блокировка.
type Manager struct {
	lockRepo     LockRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	ttl          time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewManager создает новый менеджер блокировок
// ttlMinutes <= 0 заменяется дефолтным TTL
func NewManager(
	lockRepo LockRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	ttlMinutes int,
	logger Logger,
) *Manager {
	if ttlMinutes <= 0 {
		ttlMinutes = domain.DefaultSlotLockTTLMinutes
	}
	return &Manager{
		lockRepo:     lockRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		ttl:          time.Duration(ttlMinutes) * time.Minute,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Acquire захватывает эксклюзивную блокировку на слот.
// Внутри одной атомарной транзакции:
//  1. Собирает все просроченные блокировки (passive reaping)
//  2. Проверяет отсутствие живого бронирования на ключе слота
//  3. Вставляет блокировку; проигравший конкурентную вставку получает
//     нарушение уникальности и ErrSlotLocked
//
// Проверка и вставка в одной транзакции не оставляют окна, в котором два
// вызова одновременно посчитают слот свободным
func (m *Manager) Acquire(ctx context.Context, branchID string, appointmentAt time.Time, userID int64) (*domain.SlotLock, error) {
	key, err := domain.ResolveSlotKey(branchID, appointmentAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := m.timeProvider.Now()

	lock := &domain.SlotLock{
		ID:             uuid.NewString(),
		BranchID:       key.BranchID,
		SlotDate:       key.Date,
		SlotTime:       key.Time,
		LockedByUserID: userID,
		AppointmentAt:  appointmentAt.UTC(),
		ExpiresAt:      now.Add(m.ttl),
	}

	err = m.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Собираем просроченные блокировки - упавший между acquire и
		// release процесс не держит слот дольше TTL
		reaped, err := m.lockRepo.DeleteExpired(txCtx, now)
		if err != nil {
			m.logger.Error("Acquire: failed to reap expired locks: %v", err)
			return fmt.Errorf("%w: failed to reap expired locks: %v", ErrInternal, err)
		}
		if reaped > 0 {
			m.logger.Info("Acquire: reaped %d expired locks", reaped)
		}

		// 2. Живое бронирование на ключе слота - терминальный конфликт
		exists, err := m.bookingRepo.ExistsBlockingAtSlot(txCtx, key.BranchID, key.Date, key.Time)
		if err != nil {
			m.logger.Error("Acquire: failed to check blocking bookings: %v", err)
			return fmt.Errorf("%w: failed to check blocking bookings: %v", ErrInternal, err)
		}
		if exists {
			m.logger.Warn("Acquire: slot %s already booked", key)
			return ErrSlotAlreadyBooked
		}

		// 3. Вставляем блокировку, уникальность ключа разрешает гонку
		if err := m.lockRepo.Create(txCtx, lock); err != nil {
			if errors.Is(err, lockRepo.ErrSlotTaken) {
				m.logger.Warn("Acquire: slot %s locked by concurrent request", key)
				return ErrSlotLocked
			}
			m.logger.Error("Acquire: failed to create lock: %v", err)
			return fmt.Errorf("%w: failed to create lock: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	m.logger.Info("Acquire: lock id=%s acquired for slot %s by user=%d", lock.ID, key, userID)
	return lock, nil
}

// Release снимает блокировку
// Идемпотентна: снятие уже отсутствующей блокировки не является ошибкой
func (m *Manager) Release(ctx context.Context, lockID string) error {
	if err := m.lockRepo.Delete(ctx, lockID); err != nil {
		m.logger.Error("Release: failed to delete lock id=%s: %v", lockID, err)
		return fmt.Errorf("%w: failed to delete lock: %v", ErrInternal, err)
	}

	m.logger.Info("Release: lock id=%s released", lockID)
	return nil
}

// Revalidate проверяет, что блокировка все еще существует, не истекла и
// принадлежит ожидаемому владельцу. Вызывается внутри транзакции вставки
// бронирования: очень медленный запрос, чья блокировка истекла и была
// собрана конкурентом, не должен вставлять бронирование поверх чужого
func (m *Manager) Revalidate(ctx context.Context, lockID string, userID int64) error {
	lock, err := m.lockRepo.GetByID(ctx, lockID)
	if err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			m.logger.Warn("Revalidate: lock id=%s is gone", lockID)
			return ErrLockLost
		}
		m.logger.Error("Revalidate: failed to get lock id=%s: %v", lockID, err)
		return fmt.Errorf("%w: failed to get lock: %v", ErrInternal, err)
	}

	if lock.LockedByUserID != userID {
		m.logger.Warn("Revalidate: lock id=%s owned by user=%d, expected user=%d",
			lockID, lock.LockedByUserID, userID)
		return ErrLockLost
	}

	if lock.IsExpired(m.timeProvider.Now()) {
		m.logger.Warn("Revalidate: lock id=%s expired at %s", lockID, lock.ExpiresAt)
		return ErrLockLost
	}

	return nil
}
