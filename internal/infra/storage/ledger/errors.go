package ledger

import "errors"

var (
	// ErrDuplicateTransaction возвращается, когда проводка по этому бронированию
	// уже существует (нарушение уникального ограничения на booking_id)
	ErrDuplicateTransaction = errors.New("ledger.repository: transaction for booking already exists")

	// ErrTransactionNotFound возвращается, когда проводка не найдена
	ErrTransactionNotFound = errors.New("ledger.repository: transaction not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
