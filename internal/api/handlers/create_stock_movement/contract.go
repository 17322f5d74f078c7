package create_stock_movement

import (
	"context"

	createStockMovement "github.com/m04kA/SMC-ServiceCenter/internal/usecase/create_stock_movement"
)

type CreateStockMovementUseCase interface {
	Execute(ctx context.Context, req *createStockMovement.Request) (*createStockMovement.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
