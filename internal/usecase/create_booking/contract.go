package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Service, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetActiveByUserID(ctx context.Context, userID int64) (*domain.Customer, error)
}

// SlotLockManager интерфейс менеджера блокировок слотов
type SlotLockManager interface {
	Acquire(ctx context.Context, branchID string, appointmentAt time.Time, userID int64) (*domain.SlotLock, error)
	Release(ctx context.Context, lockID string) error
	Revalidate(ctx context.Context, lockID string, userID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationSink интерфейс сервиса уведомлений
type NotificationSink interface {
	Send(ctx context.Context, n notifier.Notification) error
}

// AuditSink интерфейс внешнего аудит-лога
type AuditSink interface {
	Append(ctx context.Context, entry auditlog.Entry) error
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
