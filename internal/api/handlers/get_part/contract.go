package get_part

import (
	"context"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

type PartRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Part, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
