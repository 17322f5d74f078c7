package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	createBooking "github.com/m04kA/SMC-ServiceCenter/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     int64  `json:"serviceId"`
	BranchID      string `json:"branchId"`
	AppointmentAt string `json:"appointmentAt"` // RFC3339, "2024-06-01T10:00:00Z"
	CustomerID    *int64 `json:"customerId,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	ServiceID       int64   `json:"serviceId"`
	BranchID        string  `json:"branchId"`
	AppointmentAt   string  `json:"appointmentAt"`
	SlotDate        string  `json:"slotDate"`
	SlotTime        string  `json:"slotTime"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServiceCategory string  `json:"serviceCategory"`
	ServicePrice    float64 `json:"servicePrice"`
	CreatedByUserID int64   `json:"createdByUserId"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	appointmentAt, err := time.Parse(time.RFC3339, r.AppointmentAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Actor:         actor,
		ServiceID:     r.ServiceID,
		BranchID:      r.BranchID,
		AppointmentAt: appointmentAt,
		CustomerID:    r.CustomerID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		ServiceID:       resp.ServiceID,
		BranchID:        resp.BranchID,
		AppointmentAt:   resp.AppointmentAt.Format(time.RFC3339),
		SlotDate:        resp.SlotDate,
		SlotTime:        resp.SlotTime,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServiceCategory: resp.ServiceCategory,
		ServicePrice:    resp.ServicePrice,
		CreatedByUserID: resp.CreatedByUserID,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
