package slotlock

import "errors"

var (
	// ErrSlotAlreadyBooked возвращается, когда на ключе слота уже есть живое
	// бронирование. Терминальный конфликт: повтор с тем же слотом бессмыслен
	ErrSlotAlreadyBooked = errors.New("slotlock: slot already booked")

	// ErrSlotLocked возвращается, когда блокировку на этот ключ удерживает
	// конкурентный запрос. Временный конфликт: можно повторить позже
	ErrSlotLocked = errors.New("slotlock: slot is locked by another request")

	// ErrLockLost возвращается при ревалидации, когда блокировка исчезла,
	// истекла или принадлежит другому владельцу
	ErrLockLost = errors.New("slotlock: lock lost")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slotlock: invalid input data")

	// ErrInternal возвращается при внутренних ошибках менеджера
	ErrInternal = errors.New("slotlock: internal error")
)
