package complete_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("complete_booking: booking not found")

	// ErrForbidden возвращается, когда актор не является сотрудником
	ErrForbidden = errors.New("complete_booking: access denied")

	// ErrInvalidEmployee возвращается, когда указанный исполнитель не найден,
	// неактивен или работает в другом филиале
	ErrInvalidEmployee = errors.New("complete_booking: invalid employee")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_booking: internal error")

	// errConcurrentCompletion внутренний маркер: конкурентное завершение уже
	// создало проводку, транзакция откачена и нужен компенсирующий перечит
	errConcurrentCompletion = errors.New("complete_booking: concurrent completion detected")
)
