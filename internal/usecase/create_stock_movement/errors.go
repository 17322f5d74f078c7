package create_stock_movement

import "errors"

var (
	// ErrPartNotFound возвращается, когда запчасть не найдена
	ErrPartNotFound = errors.New("create_stock_movement: part not found")

	// ErrForbidden возвращается, когда актор не является сотрудником
	ErrForbidden = errors.New("create_stock_movement: access denied")

	// ErrNegativeStockNotAllowed возвращается, когда движение увело бы
	// остаток в минус, а роль актора не дает права на такой уход
	ErrNegativeStockNotAllowed = errors.New("create_stock_movement: negative stock not allowed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_stock_movement: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_stock_movement: internal error")
)
