package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrCustomerIDRequired возвращается, когда walk-in бронирование создано
	// без указания клиента
	ErrCustomerIDRequired = errors.New("create_booking: customer id is required for walk-in booking")

	// ErrCustomerNotFound возвращается, когда клиент не найден или неактивен
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrSlotAlreadyBooked возвращается, когда на слоте уже есть живое
	// бронирование. Терминальный конфликт, повтор с тем же слотом бессмыслен
	ErrSlotAlreadyBooked = errors.New("create_booking: slot already booked")

	// ErrSlotLocked возвращается, когда слот удерживается конкурентным
	// запросом. Временный конфликт, можно повторить позже
	ErrSlotLocked = errors.New("create_booking: slot is locked")

	// ErrAppointmentInPast возвращается, когда момент записи уже прошел
	ErrAppointmentInPast = errors.New("create_booking: appointment is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
