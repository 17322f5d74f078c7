package domain

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending       BookingStatus = "PENDING"
	StatusApproved      BookingStatus = "APPROVED"
	StatusRejected      BookingStatus = "REJECTED"
	StatusCancelled     BookingStatus = "CANCELLED"
	StatusLateCancelled BookingStatus = "LATE_CANCELLED"
	StatusNoShow        BookingStatus = "NO_SHOW"
	StatusCompleted     BookingStatus = "COMPLETED"
	StatusNotServed     BookingStatus = "NOT_SERVED"
)

// Booking represents a service appointment in the system
type Booking struct {
	ID         int64
	CustomerID int64
	ServiceID  int64
	BranchID   string

	AppointmentAt time.Time
	// Slot key fields derived once from AppointmentAt (UTC), used for indexed lookup
	SlotDate string
	SlotTime types.TimeString

	Status BookingStatus

	// Denormalized service data, frozen at booking time
	ServiceName     string
	ServiceCategory string
	ServicePrice    float64

	// Completion fields, set only on transition to COMPLETED
	FinalPrice            *float64
	InternalNote          *string
	PerformedByEmployeeID *int64
	CompletedAt           *time.Time

	// Mutually exclusive with each other and with the completion fields
	RejectReason *string
	CancelReason *string

	CreatedByUserID int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSlotBlocking returns true if the booking makes its slot unavailable
func (b *Booking) IsSlotBlocking() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// IsTerminal returns true if the booking has no outgoing transitions left
func (b *Booking) IsTerminal() bool {
	return len(allowedTransitions[b.Status]) == 0
}

// IsCompleted returns true if the booking was completed
func (b *Booking) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// BranchBookingsFilter фильтр для получения бронирований филиала
type BranchBookingsFilter struct {
	BranchID        string         // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли бронирования в терминальных статусах
}
