package bookings

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
	GetByCustomer(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBranchWithFilter(ctx context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error)
}

// CustomerRepository интерфейс репозитория клиентов
// Нужен для проверки владения бронированием и адресации уведомлений
type CustomerRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetActiveByUserID(ctx context.Context, userID int64) (*domain.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditSink интерфейс внешнего аудит-лога
type AuditSink interface {
	Append(ctx context.Context, entry auditlog.Entry) error
}

// NotificationSink интерфейс сервиса уведомлений
type NotificationSink interface {
	Send(ctx context.Context, n notifier.Notification) error
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
