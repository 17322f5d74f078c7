package complete_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateLifecycle(ctx context.Context, booking *domain.Booking) error
}

// LedgerRepository интерфейс репозитория финансовых проводок
type LedgerRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Transaction, error)
}

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	ExistsActive(ctx context.Context, id int64, branchID string) (bool, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Customer, error)
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
