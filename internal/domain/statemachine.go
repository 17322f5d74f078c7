package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidStatusTransition возвращается при недопустимом переходе статуса
var ErrInvalidStatusTransition = errors.New("domain: invalid status transition")

// allowedTransitions таблица допустимых переходов статусов
// Статусы, отсутствующие в таблице (или с пустым списком), терминальные
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending: {
		StatusApproved,
		StatusRejected,
		StatusCancelled,
		StatusLateCancelled,
	},
	StatusApproved: {
		StatusRejected,
		StatusCancelled,
		StatusLateCancelled,
		StatusNoShow,
		StatusNotServed,
		StatusCompleted,
	},
}

// AllowedTransitions возвращает список статусов, в которые разрешен переход из from
func AllowedTransitions(from BookingStatus) []BookingStatus {
	return allowedTransitions[from]
}

// AssertTransition проверяет, что переход from -> to допустим
// Переход в тот же статус (from == to) всегда запрещен
func AssertTransition(from, to BookingStatus) error {
	if from == to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}

// ApplyTransition переводит бронирование в статус to, выполняя
// обязательные сбросы полей:
//   - переход в CANCELLED/LATE_CANCELLED/REJECTED/NOT_SERVED очищает поля завершения
//   - поле причины, не относящееся к новому статусу, обнуляется,
//     чтобы в любой момент была заполнена максимум одна из причин
func (b *Booking) ApplyTransition(to BookingStatus) error {
	if err := AssertTransition(b.Status, to); err != nil {
		return err
	}

	switch to {
	case StatusRejected:
		b.resetCompletionFields()
		b.CancelReason = nil
	case StatusCancelled, StatusLateCancelled:
		b.resetCompletionFields()
		b.RejectReason = nil
	case StatusNotServed:
		b.resetCompletionFields()
		b.RejectReason = nil
		b.CancelReason = nil
	case StatusCompleted:
		b.RejectReason = nil
		b.CancelReason = nil
	}

	b.Status = to
	return nil
}

func (b *Booking) resetCompletionFields() {
	b.FinalPrice = nil
	b.InternalNote = nil
	b.PerformedByEmployeeID = nil
	b.CompletedAt = nil
}
