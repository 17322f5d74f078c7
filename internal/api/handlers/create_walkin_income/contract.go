package create_walkin_income

import (
	"context"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	ledgerSvc "github.com/m04kA/SMC-ServiceCenter/internal/service/ledger"
)

type LedgerService interface {
	CreateWalkinIncome(ctx context.Context, actor domain.Actor, input ledgerSvc.WalkinIncomeInput) (*domain.Transaction, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
