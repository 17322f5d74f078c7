package complete_booking

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	completeBooking "github.com/m04kA/SMC-ServiceCenter/internal/usecase/complete_booking"
)

// CompleteBookingRequest HTTP request model
type CompleteBookingRequest struct {
	FinalPrice            float64 `json:"finalPrice"`
	PerformedByEmployeeID int64   `json:"performedByEmployeeId"`
	InternalNote          *string `json:"internalNote,omitempty"`
}

// CompletedBookingResponse HTTP response model
type CompletedBookingResponse struct {
	ID                    int64               `json:"id"`
	CustomerID            int64               `json:"customerId"`
	ServiceID             int64               `json:"serviceId"`
	BranchID              string              `json:"branchId"`
	AppointmentAt         string              `json:"appointmentAt"`
	Status                string              `json:"status"`
	ServiceName           string              `json:"serviceName"`
	ServicePrice          float64             `json:"servicePrice"`
	FinalPrice            *float64            `json:"finalPrice,omitempty"`
	InternalNote          *string             `json:"internalNote,omitempty"`
	PerformedByEmployeeID *int64              `json:"performedByEmployeeId,omitempty"`
	CompletedAt           *string             `json:"completedAt,omitempty"`
	Transaction           TransactionResponse `json:"transaction"`
	UpdatedAt             string              `json:"updatedAt"`
}

// TransactionResponse созданная финансовая проводка
type TransactionResponse struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Source    string  `json:"source"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CompleteBookingRequest) ToUseCaseRequest(actor domain.Actor, bookingID int64) *completeBooking.Request {
	return &completeBooking.Request{
		Actor:                 actor,
		BookingID:             bookingID,
		FinalPrice:            r.FinalPrice,
		PerformedByEmployeeID: r.PerformedByEmployeeID,
		InternalNote:          r.InternalNote,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *completeBooking.Response) *CompletedBookingResponse {
	var completedAt *string
	if resp.CompletedAt != nil {
		formatted := resp.CompletedAt.Format(time.RFC3339)
		completedAt = &formatted
	}

	return &CompletedBookingResponse{
		ID:                    resp.ID,
		CustomerID:            resp.CustomerID,
		ServiceID:             resp.ServiceID,
		BranchID:              resp.BranchID,
		AppointmentAt:         resp.AppointmentAt.Format(time.RFC3339),
		Status:                resp.Status,
		ServiceName:           resp.ServiceName,
		ServicePrice:          resp.ServicePrice,
		FinalPrice:            resp.FinalPrice,
		InternalNote:          resp.InternalNote,
		PerformedByEmployeeID: resp.PerformedByEmployeeID,
		CompletedAt:           completedAt,
		Transaction: TransactionResponse{
			ID:        resp.Transaction.ID,
			Type:      resp.Transaction.Type,
			Source:    resp.Transaction.Source,
			Amount:    resp.Transaction.Amount,
			CreatedAt: resp.Transaction.CreatedAt.Format(time.RFC3339),
		},
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
