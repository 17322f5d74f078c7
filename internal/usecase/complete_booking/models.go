package complete_booking

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

// Request модель запроса на завершение бронирования
type Request struct {
	Actor     domain.Actor // Аутентифицированный субъект
	BookingID int64        // ID бронирования

	FinalPrice            float64 // Итоговая цена, может отличаться от цены из снапшота
	PerformedByEmployeeID int64   // ID сотрудника, выполнившего работу
	InternalNote          *string // Внутренняя заметка, не видна клиенту
}

// Response модель ответа с завершенным бронированием и проводкой
type Response struct {
	ID         int64
	CustomerID int64
	ServiceID  int64
	BranchID   string

	AppointmentAt time.Time
	Status        string

	ServiceName  string
	ServicePrice float64

	FinalPrice            *float64
	InternalNote          *string
	PerformedByEmployeeID *int64
	CompletedAt           *time.Time

	Transaction TransactionInfo

	UpdatedAt time.Time
}

// TransactionInfo проводка, созданная при завершении бронирования
type TransactionInfo struct {
	ID        int64
	Type      string
	Source    string
	Amount    float64
	CreatedAt time.Time
}

func toResponse(b *domain.Booking, txn *domain.Transaction) *Response {
	return &Response{
		ID:                    b.ID,
		CustomerID:            b.CustomerID,
		ServiceID:             b.ServiceID,
		BranchID:              b.BranchID,
		AppointmentAt:         b.AppointmentAt,
		Status:                string(b.Status),
		ServiceName:           b.ServiceName,
		ServicePrice:          b.ServicePrice,
		FinalPrice:            b.FinalPrice,
		InternalNote:          b.InternalNote,
		PerformedByEmployeeID: b.PerformedByEmployeeID,
		CompletedAt:           b.CompletedAt,
		Transaction: TransactionInfo{
			ID:        txn.ID,
			Type:      string(txn.Type),
			Source:    string(txn.Source),
			Amount:    txn.Amount,
			CreatedAt: txn.CreatedAt,
		},
		UpdatedAt: b.UpdatedAt,
	}
}
