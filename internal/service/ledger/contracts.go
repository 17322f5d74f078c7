package ledger

import (
	"context"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
)

// LedgerRepository интерфейс репозитория финансовых проводок
type LedgerRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
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
