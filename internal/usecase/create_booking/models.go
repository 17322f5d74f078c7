package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor         domain.Actor // Аутентифицированный субъект
	ServiceID     int64        // ID услуги
	BranchID      string       // ID филиала
	AppointmentAt time.Time    // Момент записи (UTC instant)
	CustomerID    *int64       // ID клиента, обязателен для walk-in бронирований
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	CustomerID int64
	ServiceID  int64
	BranchID   string

	AppointmentAt time.Time
	SlotDate      string // YYYY-MM-DD, UTC
	SlotTime      string // HH:MM, UTC
	Status        string

	// Снапшот данных услуги на момент бронирования
	ServiceName     string
	ServiceCategory string
	ServicePrice    float64

	CreatedByUserID int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ServiceID:       b.ServiceID,
		BranchID:        b.BranchID,
		AppointmentAt:   b.AppointmentAt,
		SlotDate:        b.SlotDate,
		SlotTime:        b.SlotTime.String(),
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServiceCategory: b.ServiceCategory,
		ServicePrice:    b.ServicePrice,
		CreatedByUserID: b.CreatedByUserID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
