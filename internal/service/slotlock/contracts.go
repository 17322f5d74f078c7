package slotlock

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/pkg/types"
)

// LockRepository интерфейс репозитория блокировок слотов
type LockRepository interface {
	Create(ctx context.Context, lock *domain.SlotLock) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.SlotLock, error)
}

// BookingRepository интерфейс репозитория бронирований
// Менеджеру блокировок нужна только проверка живого бронирования на слоте
type BookingRepository interface {
	ExistsBlockingAtSlot(ctx context.Context, branchID, slotDate string, slotTime types.TimeString) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
