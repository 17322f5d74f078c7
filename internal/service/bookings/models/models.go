package models

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

// BookingResponse модель бронирования на границе сервиса
type BookingResponse struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	ServiceID  int64  `json:"serviceId"`
	BranchID   string `json:"branchId"`

	AppointmentAt time.Time `json:"appointmentAt"`
	SlotDate      string    `json:"slotDate"`
	SlotTime      string    `json:"slotTime"`
	Status        string    `json:"status"`

	ServiceName     string  `json:"serviceName"`
	ServiceCategory string  `json:"serviceCategory"`
	ServicePrice    float64 `json:"servicePrice"`

	FinalPrice            *float64   `json:"finalPrice,omitempty"`
	InternalNote          *string    `json:"internalNote,omitempty"`
	PerformedByEmployeeID *int64     `json:"performedByEmployeeId,omitempty"`
	CompletedAt           *time.Time `json:"completedAt,omitempty"`

	RejectReason *string `json:"rejectReason,omitempty"`
	CancelReason *string `json:"cancelReason,omitempty"`

	CreatedByUserID int64     `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain.Booking в модель сервиса
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                    b.ID,
		CustomerID:            b.CustomerID,
		ServiceID:             b.ServiceID,
		BranchID:              b.BranchID,
		AppointmentAt:         b.AppointmentAt,
		SlotDate:              b.SlotDate,
		SlotTime:              b.SlotTime.String(),
		Status:                string(b.Status),
		ServiceName:           b.ServiceName,
		ServiceCategory:       b.ServiceCategory,
		ServicePrice:          b.ServicePrice,
		FinalPrice:            b.FinalPrice,
		InternalNote:          b.InternalNote,
		PerformedByEmployeeID: b.PerformedByEmployeeID,
		CompletedAt:           b.CompletedAt,
		RejectReason:          b.RejectReason,
		CancelReason:          b.CancelReason,
		CreatedByUserID:       b.CreatedByUserID,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain.Booking в модель сервиса
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: result, Total: len(result)}
}

// ToDomainBookingStatus валидирует и конвертирует строковый статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	switch status {
	case domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
		domain.StatusCancelled, domain.StatusLateCancelled, domain.StatusNoShow,
		domain.StatusCompleted, domain.StatusNotServed:
		return status, nil
	default:
		return "", ErrUnknownStatus
	}
}
