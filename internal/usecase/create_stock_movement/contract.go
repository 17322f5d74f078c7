package create_stock_movement

import (
	"context"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
)

// PartRepository интерфейс репозитория запчастей
type PartRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Part, error)
	ApplyDeltaConditional(ctx context.Context, partID int64, delta int) (int, error)
	ApplyDelta(ctx context.Context, partID int64, delta int) (int, error)
	CreateMovement(ctx context.Context, m *domain.StockMovement) (*domain.StockMovement, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditSink интерфейс внешнего аудит-лога
type AuditSink interface {
	Append(ctx context.Context, entry auditlog.Entry) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
